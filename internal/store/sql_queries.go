package store

import (
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/MKhiriev/go-strategy-forms/models"
)

const (
	createUser = `INSERT INTO users (email, hashed_password)
	VALUES ($1, $2)
	RETURNING id::text, email, hashed_password, created_at, updated_at;`

	findUserByEmail = `SELECT id::text, email, hashed_password, created_at, updated_at
	FROM users
	WHERE email = $1;`

	findUserByID = `SELECT id::text, email, hashed_password, created_at, updated_at
	FROM users
	WHERE id = $1;`

	deleteUser = `DELETE FROM users WHERE id = $1;`

	createSubmission = `INSERT INTO marketing_form_submissions (user_id, form_data, status)
	VALUES ($1, $2::jsonb, 'pending')
	RETURNING id::text, user_id::text, form_data, strategy_data, status, created_at, updated_at;`
)

const submissionsTable = "marketing_form_submissions"

var submissionColumns = []string{
	"id::text",
	"user_id::text",
	"form_data",
	"strategy_data",
	"status",
	"created_at",
	"updated_at",
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// scopePredicate restricts a statement to the rows visible within scope.
// System scope yields nil.
func scopePredicate(scope models.Scope) sq.Sqlizer {
	switch scope.Kind {
	case models.ScopeSystem:
		return nil
	case models.ScopeUser:
		return sq.Eq{"user_id": scope.UserID}
	default:
		return sq.Eq{"user_id": nil}
	}
}

// whereID combines the id match with the scope predicate.
func whereID(id string, scope models.Scope) sq.And {
	where := sq.And{sq.Eq{"id": id}}
	if pred := scopePredicate(scope); pred != nil {
		where = append(where, pred)
	}
	return where
}

// filterPredicates turns a listing filter and scope into WHERE conditions.
func filterPredicates(filter models.SubmissionFilter, scope models.Scope) sq.And {
	where := sq.And{}
	if pred := scopePredicate(scope); pred != nil {
		where = append(where, pred)
	}
	if filter.UserID != nil {
		where = append(where, sq.Eq{"user_id": *filter.UserID})
	}
	if filter.Status != nil {
		where = append(where, sq.Eq{"status": string(*filter.Status)})
	}
	if filter.FormDataContains != nil {
		where = append(where, sq.Expr("form_data @> ?::jsonb", string(filter.FormDataContains)))
	}
	return where
}

// touch refreshes updated_at. Every UPDATE issued by the store goes through it.
func touch(b sq.UpdateBuilder) sq.UpdateBuilder {
	return b.Set("updated_at", sq.Expr("NOW()"))
}

func buildGetSubmission(id string, scope models.Scope) (string, []any, error) {
	return psql.Select(submissionColumns...).
		From(submissionsTable).
		Where(whereID(id, scope)).
		ToSql()
}

// buildLockSubmissionStatus selects the current status of a visible row and
// locks it until the end of the transaction.
func buildLockSubmissionStatus(id string, scope models.Scope) (string, []any, error) {
	return psql.Select("status").
		From(submissionsTable).
		Where(whereID(id, scope)).
		Suffix("FOR UPDATE").
		ToSql()
}

func buildListSubmissions(filter models.SubmissionFilter, page models.Pagination, scope models.Scope) (string, []any, error) {
	b := psql.Select(submissionColumns...).From(submissionsTable)
	if where := filterPredicates(filter, scope); len(where) > 0 {
		b = b.Where(where)
	}
	return b.OrderBy("created_at DESC", "id DESC").
		Limit(uint64(page.Limit)).
		Offset(uint64(page.Offset)).
		ToSql()
}

func buildCountSubmissions(filter models.SubmissionFilter, scope models.Scope) (string, []any, error) {
	b := psql.Select("COUNT(*)").From(submissionsTable)
	if where := filterPredicates(filter, scope); len(where) > 0 {
		b = b.Where(where)
	}
	return b.ToSql()
}

func buildSubmissionStats(scope models.Scope) (string, []any, error) {
	b := psql.Select("status", "COUNT(*)").From(submissionsTable)
	if pred := scopePredicate(scope); pred != nil {
		b = b.Where(pred)
	}
	return b.GroupBy("status").ToSql()
}

// buildUpdateSubmissionStatus writes the new status unless the row has
// reached a terminal status in the meantime.
func buildUpdateSubmissionStatus(id string, update models.StatusUpdate) (string, []any, error) {
	b := psql.Update(submissionsTable).Set("status", string(update.Status))
	if update.StrategyData != nil {
		b = b.Set("strategy_data", sq.Expr("?::jsonb", string(update.StrategyData)))
	}
	return touch(b).
		Where(sq.And{
			sq.Eq{"id": id},
			sq.NotEq{"status": []string{string(models.StatusCompleted), string(models.StatusFailed)}},
		}).
		Suffix(returningSubmission()).
		ToSql()
}

func buildDeleteSubmission(id string, scope models.Scope) (string, []any, error) {
	return psql.Delete(submissionsTable).
		Where(whereID(id, scope)).
		ToSql()
}

// buildClaimPending moves the oldest pending rows to processing. Rows locked
// by a concurrent claim are skipped.
func buildClaimPending(limit int) (string, []any, error) {
	// The subquery keeps '?' placeholders; the outer statement numbers them.
	pending := sq.Select("id").
		From(submissionsTable).
		Where(sq.Eq{"status": string(models.StatusPending)}).
		OrderBy("created_at ASC").
		Limit(uint64(limit)).
		Suffix("FOR UPDATE SKIP LOCKED")

	return touch(psql.Update(submissionsTable).Set("status", string(models.StatusProcessing))).
		Where(sq.Expr("id IN (?)", pending)).
		Suffix(returningSubmission()).
		ToSql()
}

// buildReleaseStaleClaims returns submissions that have stayed in processing
// since before claimedBefore to pending.
func buildReleaseStaleClaims(claimedBefore time.Time) (string, []any, error) {
	return touch(psql.Update(submissionsTable).Set("status", string(models.StatusPending))).
		Where(sq.And{
			sq.Eq{"status": string(models.StatusProcessing)},
			sq.Lt{"updated_at": claimedBefore},
		}).
		ToSql()
}

func returningSubmission() string {
	return "RETURNING " + strings.Join(submissionColumns, ", ")
}
