package persons

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/akarpovs/personapi/internal/server/models"
)

var birthDatePattern = regexp.MustCompile(`^([0-9]{4})-([0-9]{2})-([0-9]{2})$`)

// maxDays pretends every year is a leap year. The service has always
// validated birth dates against this fixed table instead of real calendar
// rules (so 2024-02-29 and 2023-02-29 are both fine), and which dates pass is
// part of the API contract.
var maxDays = [12]int{31, 29, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// nicknameSet is the read side of the nickname existence set. It is a racy
// optimization: a negative answer proves nothing, the database unique
// constraint is authoritative.
type nicknameSet interface {
	ContainsNickname(nickname string) bool
}

// requestIsValid checks a creation request against all rules, first failure
// wins. It performs no I/O and reports no detail, only valid/invalid.
func requestIsValid(req *models.CreatePersonRequest, known nicknameSet) bool {
	m := birthDatePattern.FindStringSubmatch(req.BirthDate)
	if m == nil {
		return false
	}
	month, _ := strconv.Atoi(m[2])
	if month < 1 || month > 12 {
		return false
	}
	day, _ := strconv.Atoi(m[3])
	if day < 1 || day > maxDays[month-1] {
		return false
	}

	if isBlank(req.Nickname) || isBlank(req.Name) || isBlank(req.BirthDate) {
		return false
	}
	if utf8.RuneCountInString(req.Nickname) > 32 || utf8.RuneCountInString(req.Name) > 100 {
		return false
	}
	for _, s := range req.Stack {
		if isBlank(s) {
			return false
		}
	}

	return !known.ContainsNickname(req.Nickname)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
