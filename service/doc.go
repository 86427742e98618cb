// Package service holds the business rules of the library: ISBN uniqueness
// for books, the single-outstanding-loan rule for loans, and the periodic
// overdue-loan scan. Stores are consumed through interfaces declared here,
// so the rules are testable without a database.
package service
