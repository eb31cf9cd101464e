package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/okonev/orderdesk/internal/domain/errors"
	"github.com/okonev/orderdesk/internal/domain/model"
	"github.com/okonev/orderdesk/internal/domain/repository"
)

// Pool is the subset of pgxpool.Pool the storage relies on. pgxmock satisfies
// it as well, which keeps repository tests off a live database.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   Pool
	logger *slog.Logger
}

type userRepository struct {
	storage *Storage
}

type orderRepository struct {
	storage *Storage
}

type alertRepository struct {
	storage *Storage
}

type sheetRepository struct {
	storage *Storage
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (Pool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Users() repository.UserRepository {
	return &userRepository{storage: s}
}

func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) Alerts() repository.AlertRepository {
	return &alertRepository{storage: s}
}

func (s *Storage) Sheets() repository.SheetRepository {
	return &sheetRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id BIGSERIAL PRIMARY KEY,
            email TEXT UNIQUE NOT NULL,
            username TEXT NOT NULL,
            password_hash TEXT NOT NULL,
            role TEXT NOT NULL DEFAULT 'user',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS sheets (
            id BIGSERIAL PRIMARY KEY,
            name TEXT UNIQUE NOT NULL,
            created_by BIGINT NOT NULL REFERENCES users(id),
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS orders (
            id BIGSERIAL PRIMARY KEY,
            user_id BIGINT NOT NULL REFERENCES users(id),
            sheet_id BIGINT REFERENCES sheets(id) ON DELETE SET NULL,
            amazon_order_no TEXT NOT NULL,
            order_name TEXT NOT NULL,
            buyer_name TEXT NOT NULL,
            buyer_paypal TEXT NOT NULL,
            order_ss TEXT NOT NULL,
            product_ss TEXT NOT NULL,
            review_ss TEXT,
            refund_ss TEXT,
            commission DOUBLE PRECISION,
            status TEXT NOT NULL,
            next_status_at TIMESTAMPTZ,
            version BIGINT NOT NULL DEFAULT 1,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS status_history (
            id BIGSERIAL PRIMARY KEY,
            order_id BIGINT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
            previous_status TEXT NOT NULL,
            new_status TEXT NOT NULL,
            changed_by BIGINT,
            role TEXT NOT NULL,
            changed_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS comments_history (
            id BIGSERIAL PRIMARY KEY,
            order_id BIGINT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
            comment TEXT NOT NULL,
            commented_by BIGINT NOT NULL REFERENCES users(id),
            role TEXT NOT NULL,
            commented_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS alerts (
            id BIGSERIAL PRIMARY KEY,
            order_id BIGINT NOT NULL,
            changed_by BIGINT,
            role TEXT NOT NULL,
            previous_status TEXT NOT NULL,
            new_status TEXT NOT NULL,
            action TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_orders_user ON orders(user_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_due ON orders(next_status_at) WHERE next_status_at IS NOT NULL`,
		`CREATE INDEX IF NOT EXISTS idx_status_history_order ON status_history(order_id, changed_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_comments_order ON comments_history(order_id, commented_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_alerts_created ON alerts(created_at DESC)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// --- UserRepository implementation ---

func (r *userRepository) Create(ctx context.Context, email, username, passwordHash string, role model.Role) (*model.User, error) {
	const query = `INSERT INTO users (email, username, password_hash, role) VALUES ($1, $2, $3, $4) RETURNING id, created_at`
	var u model.User
	err := r.storage.pool.QueryRow(ctx, query, email, username, passwordHash, string(role)).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	u.Email = email
	u.Username = username
	u.PasswordHash = passwordHash
	u.Role = role
	return &u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	const query = `SELECT id, email, username, password_hash, role, created_at FROM users WHERE email=$1`
	return r.scanUser(r.storage.pool.QueryRow(ctx, query, email))
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	const query = `SELECT id, email, username, password_hash, role, created_at FROM users WHERE id=$1`
	return r.scanUser(r.storage.pool.QueryRow(ctx, query, id))
}

func (r *userRepository) scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// --- SheetRepository implementation ---

func (r *sheetRepository) Create(ctx context.Context, name string, createdBy int64) (*model.Sheet, error) {
	const query = `INSERT INTO sheets (name, created_by) VALUES ($1, $2) RETURNING id, created_at`
	var s model.Sheet
	err := r.storage.pool.QueryRow(ctx, query, name, createdBy).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	s.Name = name
	s.CreatedBy = createdBy
	return &s, nil
}

func (r *sheetRepository) GetByName(ctx context.Context, name string) (*model.Sheet, error) {
	const query = `SELECT id, name, created_by, created_at FROM sheets WHERE LOWER(name)=LOWER($1)`
	var s model.Sheet
	err := r.storage.pool.QueryRow(ctx, query, name).Scan(&s.ID, &s.Name, &s.CreatedBy, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *sheetRepository) List(ctx context.Context) ([]model.Sheet, error) {
	const query = `SELECT id, name, created_by, created_at FROM sheets ORDER BY name`
	rows, err := r.storage.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Sheet
	for rows.Next() {
		var s model.Sheet
		if err := rows.Scan(&s.ID, &s.Name, &s.CreatedBy, &s.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *sheetRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.storage.pool.Exec(ctx, `DELETE FROM sheets WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

// --- OrderRepository implementation ---

const orderColumns = `id, user_id, sheet_id, amazon_order_no, order_name, buyer_name, buyer_paypal,
        order_ss, product_ss, review_ss, refund_ss, commission, status, next_status_at, version, created_at, updated_at`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	err := row.Scan(&o.ID, &o.UserID, &o.SheetID, &o.AmazonOrderNo, &o.OrderName, &o.BuyerName, &o.BuyerPaypal,
		&o.OrderSS, &o.ProductSS, &o.ReviewSS, &o.RefundSS, &o.Commission, &o.Status, &o.NextStatusAt,
		&o.Version, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *orderRepository) Create(ctx context.Context, draft model.OrderDraft, nextStatusAt time.Time) (*model.Order, error) {
	order := &model.Order{
		UserID:        draft.UserID,
		SheetID:       draft.SheetID,
		AmazonOrderNo: draft.AmazonOrderNo,
		OrderName:     draft.OrderName,
		BuyerName:     draft.BuyerName,
		BuyerPaypal:   draft.BuyerPaypal,
		OrderSS:       draft.OrderSS,
		ProductSS:     draft.ProductSS,
		Commission:    draft.Commission,
		Status:        model.StatusOrdered,
		NextStatusAt:  &nextStatusAt,
	}

	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const insertOrder = `INSERT INTO orders
            (user_id, sheet_id, amazon_order_no, order_name, buyer_name, buyer_paypal, order_ss, product_ss, commission, status, next_status_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
            RETURNING id, version, created_at, updated_at`
		err := tx.QueryRow(ctx, insertOrder,
			draft.UserID, draft.SheetID, draft.AmazonOrderNo, draft.OrderName, draft.BuyerName,
			draft.BuyerPaypal, draft.OrderSS, draft.ProductSS, draft.Commission,
			string(model.StatusOrdered), nextStatusAt,
		).Scan(&order.ID, &order.Version, &order.CreatedAt, &order.UpdatedAt)
		if err != nil {
			return err
		}

		const insertAlert = `INSERT INTO alerts (order_id, changed_by, role, previous_status, new_status, action, created_at)
            VALUES ($1, $2, (SELECT role FROM users WHERE id=$2), $3, $3, $4, $5)`
		if _, err := tx.Exec(ctx, insertAlert,
			order.ID, draft.UserID, string(model.StatusOrdered), string(model.ActionCreateOrder), order.CreatedAt); err != nil {
			return err
		}

		if draft.Comment != "" {
			const insertComment = `INSERT INTO comments_history (order_id, comment, commented_by, role, commented_at)
                VALUES ($1, $2, $3, (SELECT role FROM users WHERE id=$3), $4)`
			if _, err := tx.Exec(ctx, insertComment, order.ID, draft.Comment, draft.UserID, order.CreatedAt); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id=$1`
	return scanOrder(r.storage.pool.QueryRow(ctx, query, id))
}

func (r *orderRepository) Detail(ctx context.Context, id int64) (*model.OrderDetail, error) {
	const query = `SELECT o.id, o.user_id, o.sheet_id, o.amazon_order_no, o.order_name, o.buyer_name, o.buyer_paypal,
            o.order_ss, o.product_ss, o.review_ss, o.refund_ss, o.commission, o.status, o.next_status_at,
            o.version, o.created_at, o.updated_at,
            u.email, u.username, s.name
        FROM orders o
        JOIN users u ON u.id = o.user_id
        LEFT JOIN sheets s ON s.id = o.sheet_id
        WHERE o.id=$1`

	var detail model.OrderDetail
	var sheetName *string
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(
		&detail.ID, &detail.UserID, &detail.SheetID, &detail.AmazonOrderNo, &detail.OrderName,
		&detail.BuyerName, &detail.BuyerPaypal, &detail.OrderSS, &detail.ProductSS,
		&detail.ReviewSS, &detail.RefundSS, &detail.Commission, &detail.Status, &detail.NextStatusAt,
		&detail.Version, &detail.CreatedAt, &detail.UpdatedAt,
		&detail.Owner.Email, &detail.Owner.Username, &sheetName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	detail.Owner.ID = detail.UserID
	if detail.SheetID != nil && sheetName != nil {
		detail.Sheet = &model.SheetSummary{ID: *detail.SheetID, Name: *sheetName}
	}

	history, err := r.statusHistory(ctx, id)
	if err != nil {
		return nil, err
	}
	detail.History = history

	comments, err := r.comments(ctx, id)
	if err != nil {
		return nil, err
	}
	detail.Comments = comments

	return &detail, nil
}

func (r *orderRepository) statusHistory(ctx context.Context, orderID int64) ([]model.StatusChange, error) {
	const query = `SELECT id, order_id, previous_status, new_status, changed_by, role, changed_at
        FROM status_history WHERE order_id=$1 ORDER BY changed_at DESC, id DESC`
	rows, err := r.storage.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.StatusChange
	for rows.Next() {
		var c model.StatusChange
		if err := rows.Scan(&c.ID, &c.OrderID, &c.PreviousStatus, &c.NewStatus, &c.ChangedBy, &c.Role, &c.ChangedAt); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *orderRepository) comments(ctx context.Context, orderID int64) ([]model.Comment, error) {
	const query = `SELECT id, order_id, comment, commented_by, role, commented_at
        FROM comments_history WHERE order_id=$1 ORDER BY commented_at DESC, id DESC`
	rows, err := r.storage.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Comment
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(&c.ID, &c.OrderID, &c.Comment, &c.CommentedBy, &c.Role, &c.CommentedAt); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func applyOrderFilter(builder sq.SelectBuilder, filter model.OrderFilter) sq.SelectBuilder {
	if filter.OwnerID != nil {
		builder = builder.Where(sq.Eq{"o.user_id": *filter.OwnerID})
	}
	if filter.Status != nil {
		builder = builder.Where(sq.Eq{"o.status": string(*filter.Status)})
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		builder = builder.Where(sq.Or{
			sq.ILike{"o.order_name": like},
			sq.ILike{"o.buyer_name": like},
			sq.ILike{"o.amazon_order_no": like},
			sq.ILike{"o.buyer_paypal": like},
			sq.ILike{"u.username": like},
			sq.ILike{"u.email": like},
		})
	}
	return builder
}

func (r *orderRepository) List(ctx context.Context, filter model.OrderFilter) ([]model.OrderListed, int64, error) {
	countQuery, countArgs, err := applyOrderFilter(
		sq.Select("COUNT(*)").
			From("orders o").
			Join("users u ON u.id = o.user_id"),
		filter,
	).PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.storage.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := uint64(0)
	if filter.Page > 1 {
		offset = uint64(filter.Page-1) * uint64(filter.PerPage)
	}
	listQuery, listArgs, err := applyOrderFilter(
		sq.Select(`o.id, o.user_id, o.sheet_id, o.amazon_order_no, o.order_name, o.buyer_name, o.buyer_paypal,
                o.order_ss, o.product_ss, o.review_ss, o.refund_ss, o.commission, o.status, o.next_status_at,
                o.version, o.created_at, o.updated_at,
                u.email, u.username, s.name`).
			From("orders o").
			Join("users u ON u.id = o.user_id").
			LeftJoin("sheets s ON s.id = o.sheet_id"),
		filter,
	).OrderBy("o.created_at DESC", "o.id DESC").
		Limit(uint64(filter.PerPage)).
		Offset(offset).
		PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.storage.pool.Query(ctx, listQuery, listArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []model.OrderListed
	for rows.Next() {
		var item model.OrderListed
		var sheetName *string
		if err := rows.Scan(
			&item.ID, &item.UserID, &item.SheetID, &item.AmazonOrderNo, &item.OrderName,
			&item.BuyerName, &item.BuyerPaypal, &item.OrderSS, &item.ProductSS,
			&item.ReviewSS, &item.RefundSS, &item.Commission, &item.Status, &item.NextStatusAt,
			&item.Version, &item.CreatedAt, &item.UpdatedAt,
			&item.Owner.Email, &item.Owner.Username, &sheetName); err != nil {
			return nil, 0, err
		}
		item.Owner.ID = item.UserID
		if item.SheetID != nil && sheetName != nil {
			item.Sheet = &model.SheetSummary{ID: *item.SheetID, Name: *sheetName}
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

func (r *orderRepository) StatusCounts(ctx context.Context, ownerID *int64) ([]model.StatusCount, error) {
	builder := sq.Select("status", "COUNT(*)").From("orders").GroupBy("status").OrderBy("status")
	if ownerID != nil {
		builder = builder.Where(sq.Eq{"user_id": *ownerID})
	}
	query, args, err := builder.PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.storage.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.StatusCount
	for rows.Next() {
		var c model.StatusCount
		if err := rows.Scan(&c.Status, &c.Count); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *orderRepository) ApplyTransition(ctx context.Context, record repository.TransitionRecord) (*model.StatusChange, error) {
	change := &model.StatusChange{
		OrderID:        record.Order.ID,
		PreviousStatus: record.PreviousStatus,
		NewStatus:      record.NewStatus,
		ChangedBy:      record.Actor.ID,
		Role:           record.Actor.Role,
		ChangedAt:      record.ChangedAt,
	}

	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		update := sq.Update("orders").
			Set("status", string(record.NewStatus)).
			Set("next_status_at", record.NextStatusAt).
			Set("version", record.Order.Version+1).
			Set("updated_at", record.ChangedAt)
		if record.Patch.Commission != nil {
			update = update.Set("commission", *record.Patch.Commission)
		}
		if record.Patch.ReviewSS != nil {
			update = update.Set("review_ss", *record.Patch.ReviewSS)
		}
		if record.Patch.RefundSS != nil {
			update = update.Set("refund_ss", *record.Patch.RefundSS)
		}
		query, args, err := update.
			Where(sq.Eq{"id": record.Order.ID, "version": record.Order.Version}).
			PlaceholderFormat(sq.Dollar).ToSql()
		if err != nil {
			return err
		}

		tag, err := tx.Exec(ctx, query, args...)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domainErrors.ErrVersionConflict
		}

		const insertHistory = `INSERT INTO status_history (order_id, previous_status, new_status, changed_by, role, changed_at)
            VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
		if err := tx.QueryRow(ctx, insertHistory,
			record.Order.ID, string(record.PreviousStatus), string(record.NewStatus),
			record.Actor.ID, string(record.Actor.Role), record.ChangedAt,
		).Scan(&change.ID); err != nil {
			return err
		}

		const insertAlert = `INSERT INTO alerts (order_id, changed_by, role, previous_status, new_status, action, created_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7)`
		if _, err := tx.Exec(ctx, insertAlert,
			record.Order.ID, record.Actor.ID, string(record.Actor.Role),
			string(record.PreviousStatus), string(record.NewStatus), string(record.Action), record.ChangedAt); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return change, nil
}

func (r *orderRepository) UpdatePayload(ctx context.Context, orderID int64, patch model.OrderPatch) error {
	if patch.Empty() {
		return nil
	}
	update := sq.Update("orders").Set("updated_at", sq.Expr("NOW()"))
	if patch.Commission != nil {
		update = update.Set("commission", *patch.Commission)
	}
	if patch.ReviewSS != nil {
		update = update.Set("review_ss", *patch.ReviewSS)
	}
	if patch.RefundSS != nil {
		update = update.Set("refund_ss", *patch.RefundSS)
	}
	query, args, err := update.Where(sq.Eq{"id": orderID}).PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return err
	}

	tag, err := r.storage.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *orderRepository) ClearSchedule(ctx context.Context, orderID int64) error {
	_, err := r.storage.pool.Exec(ctx, `UPDATE orders SET next_status_at=NULL WHERE id=$1`, orderID)
	return err
}

func (r *orderRepository) Due(ctx context.Context, now time.Time, limit int) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders
        WHERE next_status_at IS NOT NULL AND next_status_at <= $1
        ORDER BY next_status_at LIMIT $2`
	rows, err := r.storage.pool.Query(ctx, query, now, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		var o model.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.SheetID, &o.AmazonOrderNo, &o.OrderName, &o.BuyerName, &o.BuyerPaypal,
			&o.OrderSS, &o.ProductSS, &o.ReviewSS, &o.RefundSS, &o.Commission, &o.Status, &o.NextStatusAt,
			&o.Version, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *orderRepository) AddComment(ctx context.Context, orderID int64, comment string, actor model.Actor, at time.Time) (*model.Comment, error) {
	const query = `INSERT INTO comments_history (order_id, comment, commented_by, role, commented_at)
        VALUES ($1, $2, $3, $4, $5) RETURNING id`
	if actor.ID == nil {
		return nil, domainErrors.ErrForbidden
	}
	result := &model.Comment{
		OrderID:     orderID,
		Comment:     comment,
		CommentedBy: *actor.ID,
		Role:        actor.Role,
		CommentedAt: at,
	}
	err := r.storage.pool.QueryRow(ctx, query, orderID, comment, *actor.ID, string(actor.Role), at).Scan(&result.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return result, nil
}

func (r *orderRepository) Delete(ctx context.Context, orderID int64) error {
	// Histories cascade; alert feed entries deliberately stay behind.
	tag, err := r.storage.pool.Exec(ctx, `DELETE FROM orders WHERE id=$1`, orderID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

// --- AlertRepository implementation ---

func (r *alertRepository) List(ctx context.Context, filter model.AlertFilter) (*model.AlertPage, error) {
	page := &model.AlertPage{Page: filter.Page, PerPage: filter.PerPage}

	countBuilder := sq.Select("COUNT(*)").From("alerts a")
	if filter.OwnerID != nil {
		countBuilder = countBuilder.
			Join("orders o ON o.id = a.order_id").
			Where(sq.Eq{"o.user_id": *filter.OwnerID})
	}
	countQuery, countArgs, err := countBuilder.PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return nil, err
	}
	if err := r.storage.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&page.TotalCount); err != nil {
		return nil, err
	}

	listBuilder := sq.Select(`a.id, a.order_id, a.changed_by, a.role, a.previous_status, a.new_status, a.action, a.created_at,
            o.id, o.user_id, o.order_name, o.status,
            u.email, u.username`).
		From("alerts a").
		LeftJoin("orders o ON o.id = a.order_id").
		LeftJoin("users u ON u.id = a.changed_by")
	if filter.OwnerID != nil {
		listBuilder = listBuilder.Where(sq.Eq{"o.user_id": *filter.OwnerID})
	}
	offset := uint64(0)
	if filter.Page > 1 {
		offset = uint64(filter.Page-1) * uint64(filter.PerPage)
	}
	listQuery, listArgs, err := listBuilder.
		OrderBy("a.created_at DESC", "a.id DESC").
		Limit(uint64(filter.PerPage)).
		Offset(offset).
		PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.storage.pool.Query(ctx, listQuery, listArgs...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var entry model.AlertEntry
		var orderID, orderUserID *int64
		var orderName, orderStatus *string
		var actorEmail, actorUsername *string
		if err := rows.Scan(
			&entry.Alert.ID, &entry.Alert.OrderID, &entry.ChangedBy, &entry.Role,
			&entry.PreviousStatus, &entry.NewStatus, &entry.Action, &entry.Alert.CreatedAt,
			&orderID, &orderUserID, &orderName, &orderStatus,
			&actorEmail, &actorUsername); err != nil {
			return nil, err
		}
		if orderID != nil {
			entry.Order = &model.AlertOrderSummary{
				ID:        *orderID,
				UserID:    *orderUserID,
				OrderName: *orderName,
				Status:    model.OrderStatus(*orderStatus),
			}
		}
		if entry.ChangedBy != nil && actorUsername != nil {
			entry.Actor = &model.UserSummary{ID: *entry.ChangedBy, Email: *actorEmail, Username: *actorUsername}
		}
		page.Entries = append(page.Entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return page, nil
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Logger returns storage logger.
func (s *Storage) Logger() *slog.Logger {
	return s.logger
}
