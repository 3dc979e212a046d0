// Package config manages the certdeploy tool configuration stored in YAML
// format at ~/.config/certdeploy/config.yaml.
//
// This is tool-level configuration: where the shared deploy log lives, how
// partial failure across certificate-store URIs is reported, and whether
// downstream API calls carry an explicit timeout. Per-lineage target
// configuration lives in the deploy.json sidecar next to the certificate
// material and is handled by the deployconf package.
//
// Example config.yaml:
//
//	log_file: /var/log/certdeploy.log
//	fanout_policy: any
//	http_timeout_seconds: 30
//
// A missing file is not an error; Load returns defaults so the hook works on
// a machine with no operator-side setup at all.
//
// # Thread Safety
//
// Settings operations are NOT thread-safe. The hook runner is strictly
// single-threaded, so no synchronization is provided.
package config
