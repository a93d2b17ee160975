// Package backup implements dump-file naming, the on-disk archive store, the
// pg_dump/pg_restore executor, the job exclusion guard and the recurring
// backup scheduler.
package backup

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Kind distinguishes how a backup was triggered.
type Kind string

const (
	KindManual Kind = "manual"
	KindDaily  Kind = "daily"
)

const nameSuffix = ".dump"

// safeName is the sole defense against path traversal and argument injection:
// a name that fails it must never reach the filesystem or a subprocess argv.
var safeName = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// BuildName derives a dump file name like "manual-20260101-120000.dump" from
// the backup kind and an instant in local time.
func BuildName(kind Kind, now time.Time) string {
	return fmt.Sprintf("%s-%s%s", kind, now.Format("20060102-150405"), nameSuffix)
}

// Classify derives the backup kind from a file name prefix. Names without a
// recognized prefix count as manual.
func Classify(name string) Kind {
	if strings.HasPrefix(name, string(KindDaily)+"-") {
		return KindDaily
	}
	return KindManual
}

// IsSafe reports whether name is safe to interpolate into a filesystem path
// and a subprocess argument list.
func IsSafe(name string) bool {
	return strings.HasSuffix(name, nameSuffix) && safeName.MatchString(name)
}
