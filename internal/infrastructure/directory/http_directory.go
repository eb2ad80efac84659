// Package directory consulta empleados y proyectos en el servicio de personal.
package directory

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/jhoicas/inventario-movimientos/internal/domain/entity"
	"github.com/jhoicas/inventario-movimientos/internal/domain/repository"
)

var (
	_ repository.EmployeeDirectory = (*HTTPDirectory)(nil)
	_ repository.ProjectDirectory  = (*HTTPDirectory)(nil)
)

// Config datos de conexión al servicio de personal.
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// HTTPDirectory es un cliente resty de GET /employees/{id} y GET /projects/{id}.
// Un 404 significa que el participante no existe.
type HTTPDirectory struct {
	client *resty.Client
}

// NewHTTPDirectory construye el cliente.
func NewHTTPDirectory(cfg Config) *HTTPDirectory {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	c := resty.New().
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetHeader("Accept", "application/json").
		SetTimeout(timeout).
		SetRetryCount(1)
	if cfg.Token != "" {
		c.SetAuthToken(cfg.Token)
	}
	return &HTTPDirectory{client: c}
}

type employeePayload struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Active   bool   `json:"active"`
}

type projectPayload struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

type apiError struct {
	Message string `json:"message"`
}

// GetEmployee obtiene un empleado por ID.
func (d *HTTPDirectory) GetEmployee(ctx context.Context, id string) (*entity.Employee, error) {
	var p employeePayload
	found, err := d.get(ctx, "/employees/", id, &p)
	if err != nil || !found {
		return nil, err
	}
	return &entity.Employee{ID: p.ID, FullName: p.FullName, Active: p.Active}, nil
}

// GetProject obtiene un proyecto por ID.
func (d *HTTPDirectory) GetProject(ctx context.Context, id string) (*entity.Project, error) {
	var p projectPayload
	found, err := d.get(ctx, "/projects/", id, &p)
	if err != nil || !found {
		return nil, err
	}
	return &entity.Project{ID: p.ID, Name: p.Name, Active: p.Active}, nil
}

func (d *HTTPDirectory) get(ctx context.Context, prefix, id string, out interface{}) (bool, error) {
	if id == "" {
		return false, nil
	}
	apiErr := new(apiError)
	resp, err := d.client.R().
		SetContext(ctx).
		SetResult(out).
		SetError(apiErr).
		Get(prefix + url.PathEscape(id))
	if err != nil {
		return false, fmt.Errorf("directory %s%s: %w", prefix, id, err)
	}
	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return false, nil
	case resp.IsError():
		return false, fmt.Errorf("directory %s%s: status %d: %s", prefix, id, resp.StatusCode(), apiErr.Message)
	}
	return true, nil
}
