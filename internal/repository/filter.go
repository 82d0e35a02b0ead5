package repository

import (
	"strconv"
	"strings"

	"crypto_cashier/internal/domain"
)

const (
	defaultListLimit = 100
	maxListLimit     = 1000
)

// txWhere builds the WHERE clause shared by deposit and withdrawal listings.
// alias is the table alias used in the query.
func txWhere(alias string, f domain.TxFilter) (string, []any) {
	var conds []string
	var args []any

	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, strings.ReplaceAll(cond, "?", "$"+strconv.Itoa(len(args))))
	}

	if f.Status != "" {
		add(alias+".status = ?", f.Status)
	}
	if f.GameID != "" {
		add(alias+".game_id = ?", f.GameID)
	}
	if f.Username != "" {
		add("LOWER("+alias+".username) = LOWER(?)", f.Username)
	}

	if len(conds) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}
