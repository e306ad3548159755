// Package linalg provides the small subspace-extraction helpers used by
// estimation code built on top of the channel simulator: dominant and
// least-significant eigenvector selection and right-singular-vector
// splitting, on top of gonum's mat package. All routines operate on real
// matrices.
package linalg

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// ErrBadSubspaceSize reports a requested subspace dimension larger than
// the matrix allows.
var ErrBadSubspaceSize = errors.New("linalg: subspace dimension exceeds matrix size")

// PEig returns the n dominant eigenvectors of the symmetric matrix a as
// columns, together with the corresponding eigenvalues in decreasing
// order.
func PEig(a *mat.SymDense, n int) (*mat.Dense, []float64, error) {
	return eigSubspace(a, n, true)
}

// LEig returns the n least-significant eigenvectors of the symmetric
// matrix a as columns, together with the corresponding eigenvalues in
// increasing order.
func LEig(a *mat.SymDense, n int) (*mat.Dense, []float64, error) {
	return eigSubspace(a, n, false)
}

func eigSubspace(a *mat.SymDense, n int, dominant bool) (*mat.Dense, []float64, error) {
	dim := a.SymmetricDim()
	if n < 1 || n > dim {
		return nil, nil, fmt.Errorf("%w: want %d of %d", ErrBadSubspaceSize, n, dim)
	}

	var eig mat.EigenSym
	if ok := eig.Factorize(a, true); !ok {
		return nil, nil, errors.New("linalg: eigendecomposition failed")
	}
	values := eig.Values(nil)
	var vectors mat.Dense
	eig.VectorsTo(&vectors)

	order := make([]int, dim)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool {
		if dominant {
			return values[order[i]] > values[order[j]]
		}
		return values[order[i]] < values[order[j]]
	})

	out := mat.NewDense(dim, n, nil)
	outValues := make([]float64, n)
	for k := 0; k < n; k++ {
		idx := order[k]
		outValues[k] = values[idx]
		for r := 0; r < dim; r++ {
			out.Set(r, k, vectors.At(r, idx))
		}
	}
	return out, outValues, nil
}

// LeastRightSingularVectors splits the right singular vectors of a into
// the n least-significant ones (v0) and the remaining ones (v1), together
// with the singular values matching v1's columns. Downstream interference
// alignment code projects onto v0 and keeps v1 as the signal subspace.
func LeastRightSingularVectors(a *mat.Dense, n int) (v0, v1 *mat.Dense, singularValues []float64, err error) {
	_, cols := a.Dims()
	if n < 0 || n > cols {
		return nil, nil, nil, fmt.Errorf("%w: want %d of %d", ErrBadSubspaceSize, n, cols)
	}

	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDThin); !ok {
		return nil, nil, nil, errors.New("linalg: svd failed")
	}
	values := svd.Values(nil) // decreasing order
	var v mat.Dense
	svd.VTo(&v)
	_, vcols := v.Dims()
	rows, _ := v.Dims()

	// The thin SVD yields min(rows, cols) right singular vectors.
	if n > vcols {
		return nil, nil, nil, fmt.Errorf("%w: want %d of %d right singular vectors", ErrBadSubspaceSize, n, vcols)
	}

	if n > 0 {
		v0 = mat.NewDense(rows, n, nil)
	}
	for k := 0; k < n; k++ {
		src := vcols - 1 - k // least significant first
		for r := 0; r < rows; r++ {
			v0.Set(r, k, v.At(r, src))
		}
	}

	remaining := vcols - n
	if remaining == 0 {
		return v0, nil, nil, nil
	}
	v1 = mat.NewDense(rows, remaining, nil)
	singularValues = make([]float64, remaining)
	for k := 0; k < remaining; k++ {
		src := vcols - 1 - n - k
		singularValues[k] = values[src]
		for r := 0; r < rows; r++ {
			v1.Set(r, k, v.At(r, src))
		}
	}
	return v0, v1, singularValues, nil
}
