package entity

// Employee es la vista mínima que este servicio necesita del directorio de empleados.
type Employee struct {
	ID       string
	FullName string
	Active   bool
}

// Project es la vista mínima del directorio de proyectos.
type Project struct {
	ID     string
	Name   string
	Active bool
}
