package core

import "strings"

// Icon identifies the glyph a client renders for a category.
type Icon string

// IconDefault is rendered for unknown or empty icon names.
const IconDefault Icon = "Circle"

const (
	IconShoppingCart Icon = "ShoppingCart"
	IconHome         Icon = "Home"
	IconZap          Icon = "Zap"
	IconCar          Icon = "Car"
	IconFilm         Icon = "Film"
	IconUtensils     Icon = "Utensils"
	IconHeart        Icon = "Heart"
	IconBook         Icon = "Book"
	IconPlane        Icon = "Plane"
	IconGift         Icon = "Gift"
	IconShirt        Icon = "Shirt"
	IconBriefcase    Icon = "Briefcase"
	IconLaptop       Icon = "Laptop"
	IconTrendingUp   Icon = "TrendingUp"
	IconPiggyBank    Icon = "PiggyBank"
)

var icons = map[string]Icon{}

func init() {
	for _, icon := range []Icon{
		IconDefault, IconShoppingCart, IconHome, IconZap, IconCar, IconFilm, IconUtensils, IconHeart,
		IconBook, IconPlane, IconGift, IconShirt, IconBriefcase, IconLaptop, IconTrendingUp, IconPiggyBank,
	} {
		icons[strings.ToLower(string(icon))] = icon
	}
}

// ResolveIcon maps a stored icon name onto the enumerated set, case-insensitively.
// Anything not in the set resolves to IconDefault.
func ResolveIcon(name string) Icon {
	if icon, ok := icons[strings.ToLower(strings.TrimSpace(name))]; ok {
		return icon
	}
	return IconDefault
}
