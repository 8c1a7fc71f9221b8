// Package lore carries the built-in canon of Bharatvarsh: the Bhoomi
// persona and the seed chunks every deployment indexes on startup or via
// the index command. Operator-supplied lore files extend the seed set;
// they never replace it.
package lore
