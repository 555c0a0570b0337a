package index

// PostingList holds the positions, in the dictionary entry list, of every entry
// whose normalized key contains a given trigram. Entries are appended in build
// order, so a list is always sorted ascending and free of duplicates.
type PostingList []int
