// Package model defines the data shapes shared by the product form engine:
// mutable form values, read-only template fields, selection values, and the
// upload/persisted image split used at submission time.
package model
