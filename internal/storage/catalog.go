package storage

import "finance-tracker-backend/internal/core"

// DefaultCategories is the catalog every store starts with.
// The postgres migrations insert the same rows.
var DefaultCategories = []core.Category{
	{ID: "groceries", Name: "Groceries", Type: core.Expense, Color: "#e74c3c", Icon: core.IconShoppingCart},
	{ID: "rent", Name: "Rent", Type: core.Expense, Color: "#e67e22", Icon: core.IconHome},
	{ID: "utilities", Name: "Utilities", Type: core.Expense, Color: "#f39c12", Icon: core.IconZap},
	{ID: "transportation", Name: "Transportation", Type: core.Expense, Color: "#3498db", Icon: core.IconCar},
	{ID: "entertainment", Name: "Entertainment", Type: core.Expense, Color: "#9b59b6", Icon: core.IconFilm},
	{ID: "dining", Name: "Dining", Type: core.Expense, Color: "#d35400", Icon: core.IconUtensils},
	{ID: "health", Name: "Health", Type: core.Expense, Color: "#c0392b", Icon: core.IconHeart},
	{ID: "travel", Name: "Travel", Type: core.Expense, Color: "#2980b9", Icon: core.IconPlane},
	{ID: "salary", Name: "Salary", Type: core.Income, Color: "#27ae60", Icon: core.IconBriefcase},
	{ID: "freelance", Name: "Freelance", Type: core.Income, Color: "#16a085", Icon: core.IconLaptop},
	{ID: "investments", Name: "Investments", Type: core.Income, Color: "#2ecc71", Icon: core.IconTrendingUp},
}
