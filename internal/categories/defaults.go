package categories

import "github.com/ghostledger/ghostledger/internal/model"

// Default returns the built-in destination vocabulary. Names mirror the
// expense lines of the restaurant's income statement.
func Default() []model.Category {
	out := []model.Category{
		{Name: "Sales Revenue", Type: model.CategoryRevenue, Description: "POS and card settlements"},
	}
	for _, name := range defaultExpenses {
		out = append(out, model.Category{Name: name, Type: model.CategoryExpense})
	}
	return append(out,
		model.Category{Name: "Owner Distribution", Type: model.CategoryDistribution},
		model.Category{Name: "Bank Transfer", Type: model.CategoryTransfer, Description: "Moves between own accounts"},
		model.Category{Name: model.Uncategorized, Type: model.CategoryUncategorized},
	)
}

var defaultExpenses = []string{
	"Cost of Beer and liquor",
	"Cigarette expense",
	"Cleaning expense",
	"Decoration expense",
	"Drinking water for staffs",
	"Electricity expense",
	"Entertainment expense",
	"Water expense",
	"Event expenses",
	"Expense with no invoice",
	"Facilities expense",
	"Flower expense",
	"Fruit expense",
	"Gas expense",
	"Grocery expense",
	"Ice expense",
	"Interest expense",
	"Kitchen expense - BSB",
	"Kitchen Expense - Burger Bun",
	"Kitchen expense - LSH",
	"Kitchen Expense - Pepperoni",
	"Kitchen expense - Salmon",
	"Kitchen - Cheese",
	"Kitchen - Other",
	"Kitchen - Miscellaneous expense",
	"Maintenance expense",
	"Marketing expense",
	"Miscellaneous expenses",
	"Monthly Tax expense",
	"Music system rental expense",
	"Officer expense",
	"Office Supply expense",
	"Other expense",
	"Casual worker",
	"Transportation expense",
	"Rental Expense",
	"Internet Expense",
	"POS service",
	"Payroll Expense",
	"Payroll-Overtime",
}
