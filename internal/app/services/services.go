package services

// Services defined in this package:
// - AuthService: account lifecycle, token issuance and password recovery
// - UserService: profile management and soft deletion
// - CarService: car listing CRUD with filtering
// - CarImageService: image uploads with the single-main invariant
// - CategoryService: category management
// - ReviewService: car reviews and rating aggregates
// - AddressService: user address book
// - ChatService: renter/lender messaging backing the websocket layer
// - AdminService: administrative user management
