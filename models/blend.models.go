package models

import "github.com/shopspring/decimal"

// BlendOption is one selectable ingredient of the custom juice builder
type BlendOption struct {
	ID    string          `yaml:"id" json:"id"`
	Name  string          `yaml:"name" json:"name"`
	Color string          `yaml:"color" json:"color,omitempty"`
	Price decimal.Decimal `yaml:"price" json:"price"`
}

// BlendOptions is the option table, one list per ingredient group
type BlendOptions struct {
	Bases      []BlendOption `yaml:"bases" json:"bases"`
	Fruits     []BlendOption `yaml:"fruits" json:"fruits"`
	Vegetables []BlendOption `yaml:"vegetables" json:"vegetables"`
	Boosters   []BlendOption `yaml:"boosters" json:"boosters"`
}

// BlendSelection is what the customer picked. Base is single-select.
type BlendSelection struct {
	Base       string   `json:"base,omitempty"`
	Fruits     []string `json:"fruits"`
	Vegetables []string `json:"vegetables"`
	Boosters   []string `json:"boosters"`
}
