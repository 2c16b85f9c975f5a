package system

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Undetected выводится вместо неизвестного размера
const Undetected = "undetected"

type sizeUnit struct {
	name string
	base float64
}

var (
	binaryUnits = []sizeUnit{
		{"PiB", 1 << 50},
		{"TiB", 1 << 40},
		{"GiB", 1 << 30},
		{"MiB", 1 << 20},
		{"kiB", 1 << 10},
	}
	decimalUnits = []sizeUnit{
		{"PB", 1e15},
		{"TB", 1e12},
		{"GB", 1e9},
		{"MB", 1e6},
		{"kB", 1e3},
	}
	printer = message.NewPrinter(language.English)
)

// ReadableSize форматирует размер: точное число байт, затем крупнейшая
// двоичная и крупнейшая десятичная единица. Округлённые значения
// помечаются "~".
func ReadableSize(size *uint64) string {
	if size == nil {
		return Undetected
	}

	var b strings.Builder
	b.WriteString(printer.Sprintf("%d B", *size))

	for _, units := range [][]sizeUnit{binaryUnits, decimalUnits} {
		for _, u := range units {
			res := float64(*size) / u.base
			rnd := math.Round(res*100) / 100
			if rnd < 1 {
				continue
			}
			b.WriteString(", ")
			if res != rnd {
				b.WriteString("~")
			}
			b.WriteString(strconv.FormatFloat(rnd, 'f', -1, 64))
			b.WriteString(" ")
			b.WriteString(u.name)
			break
		}
	}
	return b.String()
}
