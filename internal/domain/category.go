package domain

// Category labels an expense with one of a fixed set of values.
// The set is closed: services reject anything outside Categories().
type Category string

const (
	CategoryGas           Category = "Gas"
	CategoryMaintenance   Category = "Maintenance"
	CategoryParkingTolls  Category = "Parking/Tolls"
	CategoryCarWash       Category = "Car Wash"
	CategorySupplies      Category = "Supplies"
	CategoryPhoneInternet Category = "Phone/Internet"
	CategoryOther         Category = "Other"
)

// Categories returns the full set of valid expense categories in display order.
// The returned slice is a fresh copy; callers may modify it freely.
func Categories() []Category {
	return []Category{
		CategoryGas,
		CategoryMaintenance,
		CategoryParkingTolls,
		CategoryCarWash,
		CategorySupplies,
		CategoryPhoneInternet,
		CategoryOther,
	}
}

// Valid reports whether c is one of the fixed expense categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryGas, CategoryMaintenance, CategoryParkingTolls,
		CategoryCarWash, CategorySupplies, CategoryPhoneInternet, CategoryOther:
		return true
	}
	return false
}

// String returns the category's display text.
func (c Category) String() string { return string(c) }
