package route

// Names of the console's built-in routes.
const (
	NameLogin       = "login"
	NameDashboard   = "dashboard"
	NameNodes       = "nodes"
	NameNodeNetwork = "node-network"
	NameTemplates   = "templates"
)

// DefaultRecords returns the console's route table. Only the login view is public.
func DefaultRecords() []Record {
	return []Record{
		{Path: "/", Redirect: "/dashboard"},
		{Name: NameLogin, Path: "/login", RequiresAuth: Public()},
		{Name: NameDashboard, Path: "/dashboard"},
		{Name: NameNodes, Path: "/nodes"},
		{Name: NameNodeNetwork, Path: "/nodes/{id}/network"},
		{Name: NameTemplates, Path: "/templates"},
	}
}

// DefaultTable builds the table from [DefaultRecords].
func DefaultTable() *Table {
	return MustNew(DefaultRecords())
}
