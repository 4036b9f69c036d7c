package repository

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// isDuplicateKey reports whether err is a MySQL unique-key violation (1062).
func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}

// joinSeats and splitSeats convert between the seat slice and the
// comma-joined column.  Stored labels are trimmed on the way out.
func joinSeats(seats []string) string {
	return strings.Join(seats, ", ")
}

func splitSeats(col string) []string {
	parts := strings.Split(col, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
