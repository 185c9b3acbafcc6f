package models

import "github.com/shopspring/decimal"

// NutritionalInfo holds per-serving nutrition for a dish
type NutritionalInfo struct {
	Calories int `yaml:"calories" bson:"calories" json:"calories"`
	Protein  int `yaml:"protein" bson:"protein" json:"protein"`
	Carbs    int `yaml:"carbs" bson:"carbs" json:"carbs"`
	Fat      int `yaml:"fat" bson:"fat" json:"fat"`
	Fiber    int `yaml:"fiber" bson:"fiber" json:"fiber"`
}

// Juice is a ready-made juice in the catalog
type Juice struct {
	ID          string          `yaml:"id" json:"id"`
	Name        string          `yaml:"name" json:"name"`
	Description string          `yaml:"description" json:"description"`
	Category    string          `yaml:"category" json:"category"`
	Price       decimal.Decimal `yaml:"price" json:"price"`
	Image       string          `yaml:"image" json:"image,omitempty"`
	Ingredients []string        `yaml:"ingredients" json:"ingredients"`
	Benefits    []string        `yaml:"benefits" json:"benefits"`
	Featured    bool            `yaml:"featured" json:"featured,omitempty"`
	Popular     bool            `yaml:"popular" json:"popular,omitempty"`
	New         bool            `yaml:"new" json:"new,omitempty"`
}

// Dish is a prepared dish in the catalog
type Dish struct {
	ID              string          `yaml:"id" json:"id"`
	Name            string          `yaml:"name" json:"name"`
	Description     string          `yaml:"description" json:"description"`
	Category        string          `yaml:"category" json:"category"`
	Price           decimal.Decimal `yaml:"price" json:"price"`
	Image           string          `yaml:"image" json:"image,omitempty"`
	Ingredients     []string        `yaml:"ingredients" json:"ingredients"`
	NutritionalInfo NutritionalInfo `yaml:"nutritionalInfo" json:"nutritionalInfo"`
	PrepTime        int             `yaml:"prepTime" json:"prepTime"` // minutes
	CookTime        int             `yaml:"cookTime" json:"cookTime"` // minutes
	Featured        bool            `yaml:"featured" json:"featured,omitempty"`
	Popular         bool            `yaml:"popular" json:"popular,omitempty"`
	New             bool            `yaml:"new" json:"new,omitempty"`
	Vegetarian      bool            `yaml:"vegetarian" json:"vegetarian,omitempty"`
	Vegan           bool            `yaml:"vegan" json:"vegan,omitempty"`
	GlutenFree      bool            `yaml:"glutenFree" json:"glutenFree,omitempty"`
	DairyFree       bool            `yaml:"dairyFree" json:"dairyFree,omitempty"`
}
