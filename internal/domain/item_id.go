package domain

import "strings"

// NormalizeSourceProductID strips any ":"-delimited prefix segments from a
// source product id, keeping only the final segment. Draft item ids embed the
// draft list id as a prefix, so an id that already went through
// BuildDraftItemID normalizes back to the bare product id:
//
//	NormalizeSourceProductID("sku-1")            == "sku-1"
//	NormalizeSourceProductID("L1:sku-1")         == "sku-1"
//	NormalizeSourceProductID("draftA:L2:sku-1")  == "sku-1"
func NormalizeSourceProductID(sourceProductID string) string {
	if idx := strings.LastIndex(sourceProductID, ":"); idx >= 0 {
		return sourceProductID[idx+1:]
	}
	return sourceProductID
}

// BuildDraftItemID derives the canonical identifier for a catalog item inside
// a draft context. The scheme is deterministic, so repeated autosave writes
// and repeated copies of the same product between an active list and its
// shadow draft collapse onto the same item identity.
func BuildDraftItemID(listID, sourceProductID string) string {
	return listID + ":" + NormalizeSourceProductID(sourceProductID)
}
