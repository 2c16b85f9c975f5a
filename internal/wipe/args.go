package wipe

import "strconv"

const (
	MinBlockSize = 512
	MaxBlockSize = 1048576
)

// ValidBlockSize reports whether the wiper accepts b as an explicit block size.
func ValidBlockSize(b int) bool {
	return b > 0 && b%MinBlockSize == 0 && b <= MaxBlockSize
}

// BuildArgs собирает аргументы затирателя:
// <target> [blocksize] [/f] [/c] [/x] [/v] [/d].
// Недопустимый размер блока молча отбрасывается.
func BuildArgs(target string, opts Options) []string {
	opts = opts.Normalize()

	args := []string{target}
	if ValidBlockSize(opts.BlockSize) {
		args = append(args, strconv.Itoa(opts.BlockSize))
	}
	if opts.FillFF {
		args = append(args, "/f")
	}
	if opts.Check {
		args = append(args, "/c")
	} else {
		if opts.Extra {
			args = append(args, "/x")
		}
		if opts.Verify {
			args = append(args, "/v")
		}
	}
	if opts.Dummy {
		args = append(args, "/d")
	}
	return args
}
