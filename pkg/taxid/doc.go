// Package taxid computes and validates Argentine CUIL/CUIT identifiers.
//
// A CUIL (personal) or CUIT (tax) number is eleven digits:
//
//	PP NNNNNNNN C
//	│  │        └── check digit (AFIP modulo-11 over the first ten digits)
//	│  └─────────── national ID (DNI), zero padded to eight digits
//	└────────────── category prefix (20/23/24/27 for people, 30/33/34 for companies)
//
// Both the compact form ("20206159775") and the formatted form
// ("20-20615977-5") are accepted everywhere; non-digit characters are
// discarded before any check.
//
// # Total functions
//
// Nothing in this package returns an error or panics on bad input. Malformed
// input yields an absent value (ok == false), false, or the input echoed back
// (Format). Callers at the HTTP boundary decide how absence is reported.
//
// # Compute vs Validate
//
// Compute treats a remainder of 10 as "this prefix cannot be used" and moves
// on to the next candidate prefix, falling back to the first prefix with a
// check digit of 9 only when every candidate is rejected. Validate maps a
// remainder of 10 straight to 9. The two rules disagree on such inputs:
// Validate("20-00000001-9") is true even though Compute("00000001",
// "masculino") returns "23-00000001-9".
//
// # Domain Purity
//
// No I/O, no context.Context, no clocks, no shared mutable state.
package taxid
