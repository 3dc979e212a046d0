// Package target implements the deploy targets: the downstream consumers a
// renewed certificate is pushed to after certbot finishes a renewal.
//
// Each target is an independent unit behind the Target interface. The shared
// run contract (applicability check, required-key validation, outcome
// logging, exit-code mapping) lives in the hook package; targets only
// implement the push itself.
//
// # Targets
//
//   - pkcs12: converts the PEM chain and key into a password-protected
//     PKCS#12 bundle and records the fresh export password in deploy.json
//     for the consumers below.
//   - technitium: points a Technitium DNS server's web service at the
//     generated bundle.
//   - clearpass: pushes the bundle into a ClearPass appliance's HTTPS and
//     RADIUS certificate stores by URI, with the appliance pulling the file
//     over HTTPS.
//   - blockpage: installs the PEM files into a block-page appliance's
//     directory with timestamped backups and signals a service reload.
//   - rsync: transfers the public and private halves to a remote host and
//     applies ownership and mode per side.
//
// # Registration
//
// Targets self-register in init() under their command-line name. The
// cmd/certdeploy binary blank-imports this package to trigger registration.
//
// # Cross-Target Dependency
//
// The API-driven targets consume the pkcs12 target's artifact and password;
// they declare that dependency through Required() paths into the pkcs12
// section ("pkcs12.pfxPass"), so a run without a prior export fails
// validation instead of pushing a stale bundle.
package target
