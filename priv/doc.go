// Package priv is the callable catalogue of RISC-V memory-fencing,
// address-translation-invalidation, hypervisor guest-access and
// floating-point CSR primitives. Every function issues exactly one
// machine instruction, bit-exact to the architectural encoding, through
// an Issuer supplied by the execution environment.
//
// The catalogue is split in two. Methods on Priv are hints or hart-local
// CSR accesses with no architectural effect a caller can misuse. Methods
// on Unsafe dereference caller-supplied addresses under a translation
// regime the caller does not control, or mutate shared translation state;
// invoking one with its preconditions unmet (extension present, address
// mapped, invalidation protocol ordering respected) raises a hardware
// trap this layer cannot observe. Obtaining the Unsafe set through
// Priv.Unsafe is the call site's acknowledgment of that contract.
//
// The SinvalVma family is not a data fence on its own: callers must bracket
// a batch with SfenceWInval before the first invalidation and SfenceInvalIR
// after the last one, before relying on the invalidation for implicit
// page-table reads. The three primitives stay independently callable; the
// ordering is a caller obligation, as it is in hardware.
package priv
