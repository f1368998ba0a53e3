package domain

type SubCategory struct {
	ID           string `json:"id"`
	MainCategory string `json:"main_category"`
	Name         string `json:"name"`
}
