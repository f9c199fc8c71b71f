/*
Package dwt is a pure Go implementation of the negacyclic discrete weighted
transform over Z_q[X]/(X^N+1), the number theoretic transform used to multiply
polynomials in lattice-based cryptography.

The transform itself lives in the dwt sub-package. The ring sub-package provides
the modular arithmetic and the root tables, and utils/concurrency the
dispatchers that execute the stages of a transform in parallel.
*/
package dwt
