package memory

import (
	"context"

	"github.com/jhoicas/inventario-movimientos/internal/domain/entity"
	"github.com/jhoicas/inventario-movimientos/internal/domain/repository"
)

var (
	_ repository.EmployeeDirectory = (*Directory)(nil)
	_ repository.ProjectDirectory  = (*Directory)(nil)
)

// Directory resuelve empleados y proyectos registrados con PutEmployee/PutProject.
type Directory struct {
	s *Store
}

func (d *Directory) GetEmployee(ctx context.Context, id string) (*entity.Employee, error) {
	d.s.mu.RLock()
	defer d.s.mu.RUnlock()
	e, ok := d.s.employees[id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (d *Directory) GetProject(ctx context.Context, id string) (*entity.Project, error) {
	d.s.mu.RLock()
	defer d.s.mu.RUnlock()
	p, ok := d.s.projects[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}
