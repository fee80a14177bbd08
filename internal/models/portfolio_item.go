package models

// PortfolioItem is the named projection of a portfolio feed row:
// [0]=name, [1]=price, [2]=description, [3]=image.
type PortfolioItem struct {
	Name        string `json:"name"`
	Price       string `json:"price"`
	Description string `json:"description"`
	Image       string `json:"image"`
}
