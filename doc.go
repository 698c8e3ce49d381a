// Package intexpr implements an integer calculator for infix expressions.
//
// Expressions contain non-negative decimal literals, variables named by
// lowercase letters, the binary operators + - * / and parentheses. "*" and
// "/" bind tighter than "+" and "-", and operators of equal priority group
// left to right, so "10-2-3" is 5 and "8/2/2" is 2. Division truncates toward
// zero. Spaces separate tokens and are otherwise ignored.
//
// An Evaluator holds variable bindings and evaluates an expression in a
// single scan with a value stack and an operator stack; no syntax tree is
// built. Every failure is reported as a typed error, and every error caused
// by bad input implements InputError.
//
package intexpr
