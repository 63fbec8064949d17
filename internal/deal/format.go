package deal

import (
	"fmt"
	"math"
	"strconv"
)

// FormatPrice renders won amounts the way marker labels show them:
// 850000 → "85만원", 9900 → "9,900원".
func FormatPrice(won int64) string {
	if won >= 10000 {
		return fmt.Sprintf("%d만원", int64(math.Round(float64(won)/10000)))
	}
	return groupThousands(won) + "원"
}

func groupThousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := n < 0
	if neg {
		s = s[1:]
	}

	var out []byte
	for i := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, s[i])
	}

	if neg {
		return "-" + string(out)
	}
	return string(out)
}
