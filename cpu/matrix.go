package cpu

import (
	"fmt"

	"github.com/yashodipmore/RISC-V-Matrix-Extension-with-SAIL-to-CGEN-Translation-Pipeline/io"
)

const (
	MATRIX_DIM   = 2                        // Rows and columns of a matrix operand.
	MATRIX_SIZE  = MATRIX_DIM * MATRIX_DIM  // Elements in a matrix operand.
	MATRIX_BYTES = MATRIX_SIZE * WORD_BYTES // Bytes of a matrix operand in memory.
)

// Matrix is a 2x2 signed integer matrix, indexed [row][column].
//
// In memory a Matrix is four little-endian words in row-major order:
// m00, m01, m10, m11.
type Matrix [MATRIX_DIM][MATRIX_DIM]int32

var (
	MatrixIdentity = Matrix{{1, 0}, {0, 1}}
	MatrixZero     = Matrix{}
)

// MatrixOf builds a matrix from row-major words.
func MatrixOf(m00, m01, m10, m11 int32) Matrix {
	return Matrix{{m00, m01}, {m10, m11}}
}

// MatrixFromBytes decodes the 16 byte memory form of a matrix.
func MatrixFromBytes(data []byte) (m Matrix, err error) {
	if len(data) != MATRIX_BYTES {
		err = ErrMatrixSize
		return
	}

	n := 0
	for word := range io.Words(data) {
		m[n/MATRIX_DIM][n%MATRIX_DIM] = word
		n++
	}

	return
}

// Multiply returns a x b. Arithmetic wraps at 32 bits.
func Multiply(a, b Matrix) (c Matrix) {
	for i := range MATRIX_DIM {
		for j := range MATRIX_DIM {
			var sum int32
			for k := range MATRIX_DIM {
				sum += a[i][k] * b[k][j]
			}
			c[i][j] = sum
		}
	}

	return
}

// Words returns the elements in row-major order.
func (m Matrix) Words() (words [MATRIX_SIZE]int32) {
	for n := range words {
		words[n] = m[n/MATRIX_DIM][n%MATRIX_DIM]
	}
	return
}

// Bytes returns the 16 byte memory form of the matrix.
func (m Matrix) Bytes() (data []byte) {
	data = make([]byte, 0, MATRIX_BYTES)
	for _, word := range m.Words() {
		data = io.AppendWord(data, word)
	}
	return
}

func (m Matrix) String() string {
	return fmt.Sprintf("[[%d, %d], [%d, %d]]", m[0][0], m[0][1], m[1][0], m[1][1])
}
