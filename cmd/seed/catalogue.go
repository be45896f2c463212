package main

import (
	"time"

	"github.com/codemastery/codemastery-api/domain/entity"
)

type demoUser struct {
	Name     string
	Email    string
	Password string
}

var demoUsers = []demoUser{
	{Name: "Administrador", Email: "admin@example.com", Password: "admin123"},
	{Name: "Usuario de Prueba", Email: "test@example.com", Password: "test123"},
}

// catalogue returns the demo courses and their modules, stamped with now.
func catalogue(now time.Time) ([]*entity.Course, []*entity.Module) {
	courses := []*entity.Course{
		{
			ID:          "python-basics",
			Title:       "Fundamentos de Python",
			Description: "Aprende los conceptos básicos de programación en Python",
			Icon:        "language-python",
			ColorClass:  "#3776ab",
		},
		{
			ID:          "javascript-basics",
			Title:       "JavaScript Fundamentals",
			Description: "Learn the basics of JavaScript programming",
			Icon:        "language-javascript",
			ColorClass:  "#f7df1e",
		},
	}

	modules := []*entity.Module{
		{
			ID:          "python-variables",
			CourseID:    "python-basics",
			Title:       "Variables y Tipos de Datos",
			Description: "Aprende sobre variables, números, strings y booleanos",
			Position:    1,
		},
		{
			ID:          "python-control-flow",
			CourseID:    "python-basics",
			Title:       "Condicionales y Bucles",
			Description: "if, for y while para controlar el flujo del programa",
			Position:    2,
		},
		{
			ID:          "js-variables",
			CourseID:    "javascript-basics",
			Title:       "Variables and Data Types",
			Description: "Learn about var, let, const and data types",
			Position:    1,
		},
		{
			ID:          "js-functions",
			CourseID:    "javascript-basics",
			Title:       "Functions",
			Description: "Declarations, arrow functions and scope",
			Position:    2,
		},
	}

	for _, c := range courses {
		c.CreatedAt, c.UpdatedAt = now, now
	}
	for _, m := range modules {
		m.CreatedAt, m.UpdatedAt = now, now
	}
	return courses, modules
}

// lessons returns one or two practice lessons per demo module.
func lessons(now time.Time) []*entity.Lesson {
	out := []*entity.Lesson{
		{
			ID:                   "python-variables-1",
			ModuleID:             "python-variables",
			Title:                "Tu primera variable",
			Theory:               "Una variable guarda un valor con un nombre. En Python se crea con el signo =.",
			PracticeInstructions: "Crea una variable llamada nombre con el valor \"Ana\".",
			PracticeInitialCode:  "# escribe tu código aquí\n",
			PracticeSolution:     "nombre = \"Ana\"",
			Position:             1,
		},
		{
			ID:                   "python-variables-2",
			ModuleID:             "python-variables",
			Title:                "Imprimir valores",
			Theory:               "La función print muestra un valor en la consola.",
			PracticeInstructions: "Imprime el número 42.",
			PracticeInitialCode:  "",
			PracticeSolution:     "print(42)",
			Position:             2,
		},
		{
			ID:                   "python-control-flow-1",
			ModuleID:             "python-control-flow",
			Title:                "Condicionales con if",
			Theory:               "if ejecuta un bloque solo cuando la condición es verdadera.",
			PracticeInstructions: "Si x es mayor que 10 imprime \"grande\".",
			PracticeInitialCode:  "x = 15\n",
			PracticeSolution:     "x = 15\nif x > 10:\n    print(\"grande\")",
			Position:             1,
		},
		{
			ID:                   "js-variables-1",
			ModuleID:             "js-variables",
			Title:                "let and const",
			Theory:               "Use const for values that never change and let for everything else.",
			PracticeInstructions: "Declare a constant named pi with the value 3.14.",
			PracticeInitialCode:  "// your code here\n",
			PracticeSolution:     "const pi = 3.14;",
			Position:             1,
		},
		{
			ID:                   "js-functions-1",
			ModuleID:             "js-functions",
			Title:                "Arrow functions",
			Theory:               "An arrow function is a shorter way to write a function expression.",
			PracticeInstructions: "Write an arrow function double that returns n * 2.",
			PracticeInitialCode:  "const double = ",
			PracticeSolution:     "const double = (n) => n * 2;",
			Position:             1,
		},
	}

	for _, l := range out {
		l.CreatedAt, l.UpdatedAt = now, now
	}
	return out
}
