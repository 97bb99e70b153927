// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package model

import (
	"time"
)

// Conversion records one converted AST repr dump.
type Conversion struct {
	ID           int64     `json:"id"           db:"id"`
	Name         string    `json:"name"         db:"name"`   // input path as given
	SHA256       string    `json:"sha256"       db:"sha256"` // digest of the raw input
	Nodes        int       `json:"nodes"        db:"nodes"`
	Placeholders int       `json:"placeholders" db:"placeholders"`
	Diagnostics  int       `json:"diagnostics"  db:"diagnostics"`
	CreatedAt    time.Time `json:"createdAt"    db:"created_at"`
}

// KindCount is the number of nodes of one kind, either in a single
// conversion or summed over all of them.
type KindCount struct {
	Kind         string `json:"kind"         db:"kind"`
	Count        int    `json:"count"        db:"count"`
	Known        bool   `json:"known"        db:"known"`        // the generator has a rendering for it
	Placeholders int    `json:"placeholders" db:"placeholders"` // how many were rendered as placeholders
}
