// Package packed defines the contract for fixed-width, bit-packed binary records
// and the small set of helpers used to implement them.
//
// Every record type has three operations with deliberately different failure
// semantics:
//
//   - Encode packs a value whose invariants already hold. It only rejects values
//     that cannot be represented in the record width.
//   - Decode is pure bit extraction with no error path. It must only be called on
//     bytes that were produced by Encode or accepted by Validate once.
//   - Validate reconstructs the value and checks every derived invariant. It is
//     the only operation allowed to reject data, and it is meant to run while
//     tables are authored or built, not on the lookup path.
//
// Validate failures are reported as *MalformedError values that match
// ErrMalformedRecord with errors.Is.
package packed
