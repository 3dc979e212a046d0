// Package deployconf handles the per-lineage deploy.json sidecar: the JSON
// document living next to the certificate material that tells each deploy
// target whether it applies to this lineage and how.
//
// # Document Shape
//
// Top-level keys are target names; each value is a target-specific object:
//
//	{
//	  "pkcs12":    { "pfxPath": "/etc/pki/out", "pfxMode": "440" },
//	  "clearPass": { "host": "cppm.example.org", "certUris": ["..."] },
//	  "technitium": { "host": "ns1.example.org", "user": "admin", "pass": "..." }
//	}
//
// Absence of a target's key means "not configured for this lineage" and is a
// soft skip, never an error. Absence of the file itself is an initialization
// error.
//
// # Required-Key Validation
//
// Require checks dot-delimited key paths ("clearPass.webHost") and the
// "name[]" notation for keys that must be non-empty arrays
// ("clearPass.certUris[]"). All missing paths are accumulated into a single
// error before failing, never fail-fast, so one run surfaces the complete
// remediation list. Validation is all-or-nothing before any side effect.
//
// # Write-Back
//
// The pkcs12 target persists its generated export password into its own
// section for later hooks in the same chain to consume. Sections are held as
// raw JSON, so Set plus SaveAtomic rewrites only the touched section and the
// atomic temp-file-and-rename save never leaves a corrupted document if
// interrupted mid-write.
package deployconf
