package audio

import (
	"math"
	"math/cmplx"

	"github.com/pkg/errors"
)

// FFT is a radix-2 transform of a fixed power-of-two length.
type FFT struct {
	bitReverseTable []int
	wTable          []complex128
	inverse         bool
	work            []complex128
}

// NewFFT ...
func NewFFT(length int, inverse bool) (*FFT, error) {
	if length < 2 || length&(length-1) != 0 {
		return nil, errors.Errorf("FFT length must be a power of two, got %d", length)
	}
	return &FFT{
		bitReverseTable: makeBitReverseTable(length),
		wTable:          makeWTable(length),
		inverse:         inverse,
		work:            make([]complex128, length),
	}, nil
}

// Len ...
func (fft *FFT) Len() int {
	return len(fft.bitReverseTable)
}

func makeBitReverseTable(n int) []int {
	array := make([]int, n)
	for i := 0; i < n; i++ {
		array[i] = bitReverse(i, n)
	}
	return array
}
func bitReverse(k, n int) int {
	m := 0
	for ; n > 1; n = n >> 1 {
		m = m<<1 + k&1
		k = k >> 1
	}
	return m
}
func makeWTable(n int) []complex128 {
	array := make([]complex128, n+1)
	w := -2.0 * math.Pi / float64(n)
	for i := 0; i <= n; i++ {
		array[i] = cmplx.Exp(complex(0, w*float64(i)))
	}
	return array
}

// Calc transforms x in place. len(x) must equal Len().
func (fft *FFT) Calc(x []complex128) error {
	n := len(x)
	if n != fft.Len() {
		return errors.Errorf("length should be %v, got %v", fft.Len(), n)
	}
	for i := 0; i < n; i++ {
		rev := fft.bitReverseTable[i]
		if i < rev {
			x[i], x[rev] = x[rev], x[i]
		}
	}
	for m := 1; m < n; m = m << 1 {
		step := m << 1
		for k := 0; k < m; k++ {
			idx := n / step * k
			if fft.inverse {
				idx = n - idx
			}
			w := fft.wTable[idx]
			for i := k; i < n; i += step {
				j := i + m
				tmp := x[j] * w
				x[j] = x[i] - tmp
				x[i] = x[i] + tmp
			}
		}
	}
	if fft.inverse {
		for i := 0; i < n; i++ {
			x[i] /= complex(float64(n), 0)
		}
	}
	return nil
}

func (fft *FFT) load(x []float64) error {
	if len(x) != fft.Len() {
		return errors.Errorf("length should be %v, got %v", fft.Len(), len(x))
	}
	for i, v := range x {
		fft.work[i] = complex(v, 0)
	}
	return fft.Calc(fft.work)
}

// CalcReal replaces x with the real part of its transform.
func (fft *FFT) CalcReal(x []float64) error {
	if err := fft.load(x); err != nil {
		return err
	}
	for i := range x {
		x[i] = real(fft.work[i])
	}
	return nil
}

// CalcAbs replaces x with the magnitude of its transform.
func (fft *FFT) CalcAbs(x []float64) error {
	if err := fft.load(x); err != nil {
		return err
	}
	for i := range x {
		x[i] = cmplx.Abs(fft.work[i])
	}
	return nil
}

// ----- Analysis ----- //

// DominantFrequency returns the frequency of the strongest bin of a
// Han-windowed transform over the largest power-of-two prefix of samples.
// The peak is refined by parabolic interpolation over its neighbours.
func DominantFrequency(samples []float64, sampleRate float64) (float64, error) {
	n := 1
	for n*2 <= len(samples) {
		n *= 2
	}
	if n < 4 {
		return 0, errors.New("too few samples to analyse")
	}
	fft, err := NewFFT(n, false)
	if err != nil {
		return 0, err
	}
	x := make([]float64, n)
	copy(x, samples)
	Han(x)
	if err := fft.CalcAbs(x); err != nil {
		return 0, err
	}
	peak := 1
	for i := 2; i < n/2; i++ {
		if x[i] > x[peak] {
			peak = i
		}
	}
	shift := 0.0
	a, b, c := x[peak-1], x[peak], x[peak+1]
	if d := a - 2*b + c; d != 0 {
		shift = 0.5 * (a - c) / d
	}
	return (float64(peak) + shift) * sampleRate / float64(n), nil
}
