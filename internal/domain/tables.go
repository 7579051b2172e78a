package domain

var Tables = []interface{}{
	// Catalog
	&Category{},
	&Product{},
	// Contact
	&Inquiry{},
	// System
	&User{},
}
