package measure

import (
	"regexp"
	"strconv"
	"unicode"
)

var pathToken = regexp.MustCompile(`[MmLlHhVvZz]|[-+]?(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?`)

// pathBounds returns the box of a path made of straight segments. Curve
// and arc commands are not understood; the path is cut off at the first
// one.
func pathBounds(d string) (Rect, bool) {
	var (
		b              bounds
		cmd            byte
		x, y           float64
		startX, startY float64
		args           []float64
		seenCmd        bool
		unsupported    bool
	)

	flush := func() {
		for len(args) > 0 {
			rel := unicode.IsLower(rune(cmd))
			switch cmd {
			case 'M', 'm', 'L', 'l':
				if len(args) < 2 {
					args = nil
					return
				}
				nx, ny := args[0], args[1]
				if rel {
					nx, ny = x+nx, y+ny
				}
				x, y = nx, ny
				if cmd == 'M' || cmd == 'm' {
					startX, startY = x, y
					// Further pairs after a moveto are implicit linetos.
					if rel {
						cmd = 'l'
					} else {
						cmd = 'L'
					}
				}
				args = args[2:]
			case 'H', 'h':
				if rel {
					x += args[0]
				} else {
					x = args[0]
				}
				args = args[1:]
			case 'V', 'v':
				if rel {
					y += args[0]
				} else {
					y = args[0]
				}
				args = args[1:]
			default:
				args = nil
				return
			}
			b.addPoint(x, y)
		}
	}

	for _, tok := range pathToken.FindAllString(d, -1) {
		if len(tok) == 1 && unicode.IsLetter(rune(tok[0])) {
			flush()
			cmd = tok[0]
			seenCmd = true
			if cmd == 'Z' || cmd == 'z' {
				x, y = startX, startY
			}
			continue
		}
		if !seenCmd {
			unsupported = true
			break
		}
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			unsupported = true
			break
		}
		args = append(args, v)
	}
	if !unsupported {
		flush()
	}
	return b.rect(), b.isSet
}
