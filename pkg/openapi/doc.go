// Package openapi imports form definitions from OpenAPI 3 documents. The
// request body schema of one operation becomes the field list and the
// operation's x-formrules extension becomes the rule set.
package openapi
