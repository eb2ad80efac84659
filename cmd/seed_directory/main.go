// seed_directory genera un script SQL para poblar las tablas employees y projects
// a partir de la exportación CSV del sistema de personal (ISO-8859-1, separador ';').
//
// Uso: go run ./cmd/seed_directory [ruta/personal.csv] [salida.sql]
// Columnas: tipo (EMPLEADO|PROYECTO); id; nombre; activo (S|N)
package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

type record struct {
	id, name string
	active   bool
}

func main() {
	csvPath := "personal.csv"
	outPath := "seed_directory.sql"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}
	if len(os.Args) > 2 {
		outPath = os.Args[2]
	}

	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	employees, projects, err := parse(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	if err := writeSQL(out, employees, projects); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generado %s: %d empleados, %d proyectos\n", outPath, len(employees), len(projects))
}

// parse decodifica el CSV Latin-1. Filas incompletas o de tipo desconocido se omiten.
func parse(r io.Reader) (employees, projects []record, err error) {
	cr := csv.NewReader(transform.NewReader(r, charmap.ISO8859_1.NewDecoder()))
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		if len(row) < 3 {
			continue
		}
		rec := record{
			id:     strings.TrimSpace(row[1]),
			name:   strings.TrimSpace(row[2]),
			active: len(row) < 4 || !strings.EqualFold(strings.TrimSpace(row[3]), "N"),
		}
		if rec.id == "" || rec.name == "" {
			continue
		}
		switch strings.ToUpper(strings.TrimSpace(row[0])) {
		case "EMPLEADO":
			employees = append(employees, rec)
		case "PROYECTO":
			projects = append(projects, rec)
		}
	}
	return employees, projects, nil
}

func writeSQL(w io.Writer, employees, projects []record) error {
	var b strings.Builder
	b.WriteString("-- Directorio de empleados y proyectos\n")
	b.WriteString("-- Generado desde la exportación del sistema de personal\n\n")
	for _, e := range employees {
		fmt.Fprintf(&b, "INSERT INTO employees (id, full_name, active) VALUES ('%s', '%s', %t)\n",
			escapeSQL(e.id), escapeSQL(e.name), e.active)
		b.WriteString("ON CONFLICT (id) DO UPDATE SET full_name = EXCLUDED.full_name, active = EXCLUDED.active;\n")
	}
	b.WriteString("\n")
	for _, p := range projects {
		fmt.Fprintf(&b, "INSERT INTO projects (id, name, active) VALUES ('%s', '%s', %t)\n",
			escapeSQL(p.id), escapeSQL(p.name), p.active)
		b.WriteString("ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, active = EXCLUDED.active;\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
