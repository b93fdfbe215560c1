package funcs

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	trustedPrefix = "trusted_"
	plainPrefix   = "fn_"
	suffixLen     = 9
)

func randomSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:suffixLen]
}

func newFunctionID(trusted bool, now time.Time, suffix string) string {
	prefix := plainPrefix
	if trusted {
		prefix = trustedPrefix
	}
	return prefix + strconv.FormatInt(now.UnixMilli(), 10) + "_" + suffix
}
