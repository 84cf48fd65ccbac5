package common

// Hash is a 32-byte node or root hash, as produced by the account trie.
type Hash [32]byte
