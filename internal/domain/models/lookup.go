package models

import "github.com/samber/lo"

type LookupItem struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

type Lookups struct {
	Locations   []LookupItem `json:"locations"`
	Departments []LookupItem `json:"departments"`
	Functions   []LookupItem `json:"functions"`
	Divisions   []LookupItem `json:"divisions"`
}

func FindLookup(items []LookupItem, id int) (LookupItem, bool) {
	return lo.Find(items, func(item LookupItem) bool { return item.ID == id })
}
