package stubapi

// Seed populates the store with a demo account and a handful of listings,
// enough to exercise search and more than one page at the default limit.
func (s *Server) Seed() error {
	acc, err := s.store.createUser("Demo Seller", "demo@example.com", "demo1234")
	if err != nil {
		return err
	}
	drafts := []draftBody{
		{Title: "Desk Lamp", Price: 500, Description: "warm LED desk lamp", Image: "http://img.example.com/lamp.jpg"},
		{Title: "Office Chair", Price: 3200, Description: "ergonomic chair, barely used", Image: "http://img.example.com/chair.jpg"},
		{Title: "Wooden Chair", Price: 900, Description: "solid oak dining chair", Image: "http://img.example.com/wchair.jpg"},
		{Title: "Monitor Stand", Price: 650, Description: "aluminium riser", Image: "http://img.example.com/stand.jpg"},
		{Title: "Mechanical Keyboard", Price: 2400, Description: "brown switches", Image: "http://img.example.com/kbd.jpg"},
		{Title: "USB Microphone", Price: 1800, Description: "cardioid condenser mic", Image: "http://img.example.com/mic.jpg"},
		{Title: "Bookshelf", Price: 1500, Description: "five shelves, white", Image: "http://img.example.com/shelf.jpg"},
		{Title: "Reading Chair", Price: 4100, Description: "armchair with ottoman", Image: "http://img.example.com/rchair.jpg"},
	}
	for _, d := range drafts {
		if _, err := s.store.createProduct(acc.ID, d); err != nil {
			return err
		}
	}
	return nil
}
