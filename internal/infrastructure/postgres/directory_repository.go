package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-movimientos/internal/domain/entity"
	"github.com/jhoicas/inventario-movimientos/internal/domain/repository"
)

var (
	_ repository.EmployeeDirectory = (*DirectoryRepo)(nil)
	_ repository.ProjectDirectory  = (*DirectoryRepo)(nil)
)

// DirectoryRepo lee empleados y proyectos de las tablas que mantiene el sistema de personal.
// Este servicio no las modifica.
type DirectoryRepo struct {
	q Querier
}

// NewDirectoryRepository construye el adaptador.
func NewDirectoryRepository(q Querier) *DirectoryRepo {
	return &DirectoryRepo{q: q}
}

// GetEmployee obtiene un empleado por ID.
func (r *DirectoryRepo) GetEmployee(ctx context.Context, id string) (*entity.Employee, error) {
	var e entity.Employee
	err := r.q.QueryRow(ctx, `SELECT id, full_name, active FROM employees WHERE id = $1`, id).
		Scan(&e.ID, &e.FullName, &e.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get employee: %w", err)
	}
	return &e, nil
}

// GetProject obtiene un proyecto por ID.
func (r *DirectoryRepo) GetProject(ctx context.Context, id string) (*entity.Project, error) {
	var p entity.Project
	err := r.q.QueryRow(ctx, `SELECT id, name, active FROM projects WHERE id = $1`, id).
		Scan(&p.ID, &p.Name, &p.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get project: %w", err)
	}
	return &p, nil
}
