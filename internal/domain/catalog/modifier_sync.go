package catalog

import "fmt"

// ModifierGroupsFromAttributes rebuilds an item's modifier groups from its product attributes.
// Each attribute line becomes a single-choice group; each value becomes a modifier priced at its extra.
func (i *Item) ModifierGroupsFromAttributes() []ModifierGroup {
	if i.Product == nil {
		return nil
	}
	one := 1
	groups := make([]ModifierGroup, 0, len(i.Product.AttributeLines))
	for _, line := range i.Product.AttributeLines {
		groupCode := fmt.Sprintf("%d_%d", i.ID, line.AttributeID)
		minSel, maxSel := one, one
		group := ModifierGroup{
			ItemID:            i.ID,
			Name:              line.AttributeName,
			Code:              groupCode,
			AvailableStatus:   "AVAILABLE",
			SelectionRangeMin: &minSel,
			SelectionRangeMax: &maxSel,
			Modifiers:         make([]Modifier, 0, len(line.Values)),
		}
		for _, v := range line.Values {
			group.Modifiers = append(group.Modifiers, Modifier{
				Name:            v.Name,
				Code:            fmt.Sprintf("%s_%d", groupCode, v.ID),
				AvailableStatus: "AVAILABLE",
				Price:           v.PriceExtra,
				Barcode:         v.Name,
			})
		}
		groups = append(groups, group)
	}
	return groups
}
