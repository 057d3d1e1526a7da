package models

type City struct {
	Name string `json:"name"`
}
