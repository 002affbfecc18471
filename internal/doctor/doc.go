// Package doctor diagnoses and repairs a local organization checkout.
//
// The checks are grouped into categories:
//
//   - [CategoryTools]: the configured git binary is missing, or use_git_get
//     is set without a "get" alias.
//
//   - [CategoryConfig]: the effective configuration does not validate or
//     git_base is unset.
//
//   - [CategoryLayout]: the base or applications directory is missing, or a
//     repository sits in the wrong group. Libraries (uppercase names) belong
//     in the base directory, applications below applications/.
//
//   - [CategoryCache]: the HTTP cache file cannot be decoded.
//
// # Usage
//
//	report, err := doctor.Run(ctx, doctor.Options{Config: cfg})            // check only
//	report, err := doctor.Run(ctx, doctor.Options{Config: cfg, Fix: true}) // check and fix
//
// Each [Issue] names the [FixAction] that Fix applies. Issues without an
// action must be resolved by hand.
package doctor
