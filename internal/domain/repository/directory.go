package repository

import (
	"context"

	"github.com/jhoicas/inventario-movimientos/internal/domain/entity"
)

// EmployeeDirectory es el directorio externo de empleados.
// Get devuelve (nil, nil) si el empleado no existe.
type EmployeeDirectory interface {
	GetEmployee(ctx context.Context, id string) (*entity.Employee, error)
}

// ProjectDirectory es el directorio externo de proyectos.
// Get devuelve (nil, nil) si el proyecto no existe.
type ProjectDirectory interface {
	GetProject(ctx context.Context, id string) (*entity.Project, error)
}
