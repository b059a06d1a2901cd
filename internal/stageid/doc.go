/*
Package stageid provides a structured, type-safe representation for the
stage index carried on every execution container's spec, based on the
canonical wire format `<stage>_<index>`.

The index suffix is either a positive integer (`ioncell_3`), the autoparal
sentinel for dry runs (`scf_autoparal`), or absent for stages that never
repeat (`gen_ph`).

This package enforces the identifier schema and centralizes all formatting
and parsing logic, improving maintainability and robustness.
*/
package stageid
