package spline

import "math"

const (
	pivotEpsilon = 1e-13
)

// solveTridiagonal solves A*x = rhs where sub[i] = A[i+1][i], diag[i] = A[i][i]
// and sup[i] = A[i][i+1]. Rows are interchanged whenever the subdiagonal entry
// dominates the current pivot, which introduces a second superdiagonal.
// The inputs are left untouched.
func solveTridiagonal(sub, diag, sup, rhs []float64) ([]float64, error) {
	n := len(diag)
	if n == 0 || len(rhs) != n || len(sub) != n-1 || len(sup) != n-1 {
		panic("solveTridiagonal: inconsistent system dimensions")
	}

	dl := append([]float64(nil), sub...)
	d := append([]float64(nil), diag...)
	du := append([]float64(nil), sup...)
	b := append([]float64(nil), rhs...)

	var du2 []float64
	if n > 2 {
		du2 = make([]float64, n-2)
	}

	tol := pivotEpsilon * bandScale(sub, diag, sup)

	for i := 0; i < n-1; i++ {
		if math.Max(math.Abs(d[i]), math.Abs(dl[i])) <= tol {
			return nil, ErrSingularSystem
		}

		if math.Abs(d[i]) >= math.Abs(dl[i]) {
			fact := dl[i] / d[i]
			d[i+1] -= fact * du[i]
			b[i+1] -= fact * b[i]

			continue
		}

		fact := d[i] / dl[i]
		d[i] = dl[i]
		tmp := d[i+1]
		d[i+1] = du[i] - fact*tmp

		if i < n-2 {
			du2[i] = du[i+1]
			du[i+1] = -fact * du2[i]
		}

		du[i] = tmp
		b[i], b[i+1] = b[i+1], b[i]-fact*b[i+1]
	}

	if math.Abs(d[n-1]) <= tol {
		return nil, ErrSingularSystem
	}

	b[n-1] /= d[n-1]

	if n > 1 {
		b[n-2] = (b[n-2] - du[n-2]*b[n-1]) / d[n-2]
	}

	for i := n - 3; i >= 0; i-- {
		b[i] = (b[i] - du[i]*b[i+1] - du2[i]*b[i+2]) / d[i]
	}

	return b, nil
}

// solveCyclic solves a tridiagonal system with the two corner entries
// alpha = A[n-1][0] and beta = A[0][n-1] set, by a Sherman-Morrison
// correction of two plain tridiagonal solves. n must be at least 3.
func solveCyclic(sub, diag, sup []float64, alpha, beta float64, rhs []float64) ([]float64, error) {
	n := len(diag)
	if n < 3 {
		panic("solveCyclic: system too small")
	}

	gamma := -diag[0]
	if gamma == 0 {
		return nil, ErrSingularSystem
	}

	bb := append([]float64(nil), diag...)
	bb[0] = diag[0] - gamma
	bb[n-1] = diag[n-1] - alpha*beta/gamma

	x, err := solveTridiagonal(sub, bb, sup, rhs)
	if err != nil {
		return nil, err
	}

	u := make([]float64, n)
	u[0] = gamma
	u[n-1] = alpha

	z, err := solveTridiagonal(sub, bb, sup, u)
	if err != nil {
		return nil, err
	}

	den := 1 + z[0] + beta*z[n-1]/gamma
	if math.Abs(den) <= pivotEpsilon {
		return nil, ErrSingularSystem
	}

	fact := (x[0] + beta*x[n-1]/gamma) / den

	for i := range x {
		x[i] -= fact * z[i]
	}

	return x, nil
}

func bandScale(bands ...[]float64) (scale float64) {
	for _, band := range bands {
		for _, v := range band {
			if a := math.Abs(v); a > scale {
				scale = a
			}
		}
	}

	return
}
