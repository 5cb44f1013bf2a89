package leavetype

// DefaultType is one entry of the catalogue seeded into new organizations.
type DefaultType struct {
	Name             string
	DaysPerYear      int
	Color            string
	RequiresApproval bool
	RequiresBalance  bool
	Category         string
}

var defaultCatalogue = []DefaultType{
	{Name: "Annual leave", DaysPerYear: 20, Color: "#2563eb", RequiresApproval: true, RequiresBalance: true, Category: CategoryVacation},
	{Name: "On-demand leave", DaysPerYear: 4, Color: "#7c3aed", RequiresApproval: true, RequiresBalance: true, Category: CategoryOnDemand},
	{Name: "Sick leave", DaysPerYear: 0, Color: "#dc2626", RequiresApproval: false, RequiresBalance: false, Category: CategorySick},
	{Name: "Unpaid leave", DaysPerYear: 0, Color: "#6b7280", RequiresApproval: true, RequiresBalance: false, Category: CategoryUnpaid},
	{Name: "Maternity leave", DaysPerYear: 140, Color: "#db2777", RequiresApproval: true, RequiresBalance: true, Category: CategoryMaternity},
	{Name: "Paternity leave", DaysPerYear: 14, Color: "#0891b2", RequiresApproval: true, RequiresBalance: true, Category: CategoryPaternity},
	{Name: "Childcare leave", DaysPerYear: 2, Color: "#ea580c", RequiresApproval: true, RequiresBalance: true, Category: CategoryChildcare},
	{Name: "Special leave", DaysPerYear: 0, Color: "#16a34a", RequiresApproval: true, RequiresBalance: false, Category: CategorySpecial},
}

// DefaultCatalogue returns a copy of the built-in leave types.
func DefaultCatalogue() []DefaultType {
	out := make([]DefaultType, len(defaultCatalogue))
	copy(out, defaultCatalogue)
	return out
}
