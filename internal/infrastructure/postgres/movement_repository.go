package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-movimientos/internal/domain"
	"github.com/jhoicas/inventario-movimientos/internal/domain/entity"
	"github.com/jhoicas/inventario-movimientos/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

const movementColumns = `id, item_id, type, quantity, movement_date, note,
	assigning_employee_id, receiving_employee_id, project_id, created_at, updated_at, created_by`

// MovementRepo implementación del puerto MovementRepository (pool o tx).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create persiste un movimiento. Los participantes vacíos se guardan como NULL.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO movements (`+movementColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		m.ID, m.ItemID, string(m.Type), m.Quantity, m.MovementDate, nullable(m.Note),
		nullable(m.AssigningEmployeeID), nullable(m.ReceivingEmployeeID), nullable(m.ProjectID),
		m.CreatedAt, m.UpdatedAt, nullable(m.CreatedBy),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	if !validID(id) {
		return nil, nil
	}
	m, err := scanMovement(r.q.QueryRow(ctx, `SELECT `+movementColumns+` FROM movements WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// Update reescribe el contenido del movimiento; created_at y created_by se conservan.
func (r *MovementRepo) Update(ctx context.Context, m *entity.Movement) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE movements SET item_id = $2, type = $3, quantity = $4, movement_date = $5, note = $6,
			assigning_employee_id = $7, receiving_employee_id = $8, project_id = $9, updated_at = $10
		WHERE id = $1`,
		m.ID, m.ItemID, string(m.Type), m.Quantity, m.MovementDate, nullable(m.Note),
		nullable(m.AssigningEmployeeID), nullable(m.ReceivingEmployeeID), nullable(m.ProjectID), m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update movement: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un movimiento.
func (r *MovementRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM movements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete movement: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List aplica los filtros y pagina; más recientes primero.
func (r *MovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.Movement, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.ItemID != "" {
		if !validID(f.ItemID) {
			return nil, nil
		}
		add("item_id = $%d", f.ItemID)
	}
	if f.Type != "" {
		add("type = $%d", string(f.Type))
	}
	if f.EmployeeID != "" {
		args = append(args, f.EmployeeID)
		n := len(args)
		where = append(where, fmt.Sprintf("(receiving_employee_id = $%d OR assigning_employee_id = $%d)", n, n))
	}
	if f.ProjectID != "" {
		add("project_id = $%d", f.ProjectID)
	}
	if f.From != nil {
		add("movement_date >= $%d", *f.From)
	}
	if f.To != nil {
		add("movement_date <= $%d", *f.To)
	}

	query := `SELECT ` + movementColumns + ` FROM movements`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY movement_date DESC, created_at DESC, id`
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		query += fmt.Sprintf(` OFFSET $%d`, len(args))
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// ListAll devuelve todos los movimientos de un ítem, o todos si itemID es vacío.
func (r *MovementRepo) ListAll(ctx context.Context, itemID string) ([]*entity.Movement, error) {
	return r.List(ctx, repository.MovementFilter{ItemID: itemID})
}

func scanMovement(row pgx.Row) (*entity.Movement, error) {
	var (
		m                               entity.Movement
		typ                             string
		note, assigning, receiving, prj *string
		createdBy                       *string
	)
	err := row.Scan(&m.ID, &m.ItemID, &typ, &m.Quantity, &m.MovementDate, &note,
		&assigning, &receiving, &prj, &m.CreatedAt, &m.UpdatedAt, &createdBy)
	if err != nil {
		return nil, err
	}
	m.Type = entity.MovementType(typ)
	m.Note = deref(note)
	m.AssigningEmployeeID = deref(assigning)
	m.ReceivingEmployeeID = deref(receiving)
	m.ProjectID = deref(prj)
	m.CreatedBy = deref(createdBy)
	return &m, nil
}
