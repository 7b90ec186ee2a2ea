// Package errors provides unified error handling for recordkit.
//
// Contract violations (double publish, unmatched close, destroy of an unknown
// record) are represented as *AppError values with codes from the contract
// family and are raised rather than returned. Advisory conditions such as a
// busy record are returned and marked retryable.
package errors
