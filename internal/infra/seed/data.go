package seed

const pexels = "?auto=compress&cs=tinysrgb&w=1260&h=750&dpr=2"

func pexelsPhoto(id string) string {
	return "https://images.pexels.com/photos/" + id + "/pexels-photo-" + id + ".jpeg" + pexels
}

type categorySeed struct {
	Name  string
	Slug  string
	Image string
}

type productSeed struct {
	Name         string
	Slug         string
	Description  string
	Price        string
	Images       []string
	CategorySlug string
	Stock        int64
}

var categories = []categorySeed{
	{Name: "Electronics", Slug: "electronics", Image: pexelsPhoto("4218823")},
	{Name: "Books", Slug: "books", Image: "https://images.pexels.com/photos/159711/books-bookstore-book-reading-159711.jpeg" + pexels},
	{Name: "Home & Kitchen", Slug: "home-kitchen", Image: pexelsPhoto("2088167")},
	{Name: "Sports", Slug: "sports", Image: pexelsPhoto("4761794")},
	{Name: "Fashion", Slug: "fashion", Image: pexelsPhoto("1036623")},
}

var products = []productSeed{
	{
		Name: "Wireless Mouse", Slug: "wireless-mouse",
		Description: "Ergonomic wireless mouse with long battery life.",
		Price:       "25.99", Stock: 100, CategorySlug: "electronics",
		Images: []string{pexelsPhoto("706509"), pexelsPhoto("205926")},
	},
	{
		Name: "Mechanical Keyboard", Slug: "mechanical-keyboard",
		Description: "RGB mechanical keyboard with blue switches.",
		Price:       "79.99", Stock: 50, CategorySlug: "electronics",
		Images: []string{pexelsPhoto("5926392"), pexelsPhoto("5926388")},
	},
	{
		Name: "Laptop Stand", Slug: "laptop-stand",
		Description: "Adjustable aluminum laptop stand.",
		Price:       "35.00", Stock: 120, CategorySlug: "electronics",
		Images: []string{pexelsPhoto("3408354")},
	},
	{
		Name: "The Great Gatsby", Slug: "the-great-gatsby",
		Description: "Classic novel by F. Scott Fitzgerald.",
		Price:       "12.50", Stock: 200, CategorySlug: "books",
		Images: []string{pexelsPhoto("1112048")},
	},
	{
		Name: "Sapiens: A Brief History of Humankind", Slug: "sapiens",
		Description: "A book by Yuval Noah Harari.",
		Price:       "18.00", Stock: 150, CategorySlug: "books",
		Images: []string{pexelsPhoto("220301")},
	},
	{
		Name: "Cookbook: Italian Cuisine", Slug: "italian-cookbook",
		Description: "Delicious Italian recipes for every occasion.",
		Price:       "29.99", Stock: 80, CategorySlug: "home-kitchen",
		Images: []string{pexelsPhoto("4053896")},
	},
	{
		Name: "Coffee Maker", Slug: "coffee-maker",
		Description: "Automatic drip coffee maker with a 12-cup capacity.",
		Price:       "49.99", Stock: 60, CategorySlug: "home-kitchen",
		Images: []string{pexelsPhoto("1487232")},
	},
	{
		Name: "Yoga Mat", Slug: "yoga-mat",
		Description: "Non-slip yoga mat for all types of yoga and fitness.",
		Price:       "20.00", Stock: 90, CategorySlug: "sports",
		Images: []string{pexelsPhoto("4034262")},
	},
	{
		Name: "Running Shoes", Slug: "running-shoes",
		Description: "Lightweight and comfortable running shoes.",
		Price:       "89.99", Stock: 75, CategorySlug: "sports",
		Images: []string{pexelsPhoto("2529148")},
	},
	{
		Name: "Men's T-Shirt", Slug: "mens-t-shirt",
		Description: "Comfortable cotton t-shirt for men.",
		Price:       "15.00", Stock: 150, CategorySlug: "fashion",
		Images: []string{pexelsPhoto("991509")},
	},
	{
		Name: "Women's Jeans", Slug: "womens-jeans",
		Description: "Stylish skinny jeans for women.",
		Price:       "45.00", Stock: 100, CategorySlug: "fashion",
		Images: []string{pexelsPhoto("1036623")},
	},
}
