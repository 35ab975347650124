// Package roles defines the closed role table consulted by the presentation
// layer. It is static configuration, not a database entity: the table is
// built once and never mutated at runtime.
package roles

// Role describes one privilege tier: its numeric level, display name, and
// the dashboard permissions it grants.
type Role struct {
	Level       int
	Name        string
	Permissions []string
}

// Recognized role identifiers.
const (
	CEO          = "ceo"
	Director     = "director"
	JefeServicio = "jefe_servicio"
	Usuario      = "usuario"
)

// Default is the lowest-privilege role. Unknown roles degrade to its
// permission set as a fail-safe.
const Default = Usuario

// Table maps role identifiers to their configuration.
var Table = map[string]Role{
	CEO: {
		Level:       100,
		Name:        "CEO",
		Permissions: []string{"buscar", "videos", "estadisticas", "validacion", "exportar", "usuarios", "invitaciones"},
	},
	Director: {
		Level:       80,
		Name:        "Director",
		Permissions: []string{"buscar", "videos", "estadisticas", "validacion", "exportar"},
	},
	JefeServicio: {
		Level:       60,
		Name:        "Jefe de Servicio",
		Permissions: []string{"buscar", "estadisticas", "validacion"},
	},
	Usuario: {
		Level:       20,
		Name:        "Usuario",
		Permissions: []string{"buscar"},
	},
}

// IsValid reports whether role is one of the recognized identifiers.
func IsValid(role string) bool {
	_, ok := Table[role]
	return ok
}

// Permissions returns the permission set of role, falling back to the
// Default role's set when the role is unknown.
func Permissions(role string) []string {
	if r, ok := Table[role]; ok {
		return r.Permissions
	}
	return Table[Default].Permissions
}

// HasPermission reports whether role grants permission.
func HasPermission(role, permission string) bool {
	for _, p := range Permissions(role) {
		if p == permission {
			return true
		}
	}
	return false
}

// Level returns the numeric level of role, or the Default role's level when
// the role is unknown.
func Level(role string) int {
	if r, ok := Table[role]; ok {
		return r.Level
	}
	return Table[Default].Level
}
