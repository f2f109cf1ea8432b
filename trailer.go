package docfx

import "sort"

// writeTrailer synthesizes everything that follows the spliced input
// objects: the outline tree, the six fixed-id bookkeeping objects, the xref
// table and the trailer dictionary. After it returns the output is a
// complete PDF.
//
// resolve maps an outline href to its parsed URLs; creator becomes the
// /Info /Creator string.
func (m *merger) writeTrailer(root *OutlineNode, resolve func(href string) ParsedURL, creator string) error {
	if _, err := root.assignIDs(len(m.xrefs) + 1); err != nil {
		return err
	}
	m.writeOutline(root, 0, resolve)

	var fixed [6]int64

	// 1000000 /Info
	fixed[0] = m.w.Position()
	m.beginFixedObject(infoID)
	m.w.WriteString("<</Creator (")
	m.w.WriteString(creator)
	m.w.WriteString(")>>\n")
	m.endObject()

	// 1000001 /Catalog
	fixed[1] = m.w.Position()
	m.beginFixedObject(catalogID)
	m.w.WriteString("<</Type /Catalog\n/Pages 1000002 0 R\n/Dests 1000005 0 R\n/PageMode /UseOutlines\n/Outlines ")
	m.w.WriteInt(root.pdfID)
	m.w.WriteString(" 0 R\n/MarkInfo <</Type /MarkInfo /Marked true>>\n/StructTreeRoot 1000003 0 R\n>>\n")
	m.endObject()

	// 1000002 /Pages
	fixed[2] = m.w.Position()
	m.beginFixedObject(pagesRootID)
	m.w.WriteString("<</Type /Pages\n/Count ")
	m.w.WriteInt(len(m.pages))
	m.w.WriteString("\n/Kids [")
	for _, id := range m.pages {
		m.writeRef(id)
	}
	m.w.WriteString("]\n>>\n")
	m.endObject()

	// 1000003 /StructTreeRoot
	fixed[3] = m.w.Position()
	m.beginFixedObject(structTreeRootID)
	m.w.WriteString("<</Type /StructTreeRoot\n/K [")
	for _, id := range m.structElems {
		m.writeRef(id)
	}
	m.w.WriteString("]\n/ParentTree 1000004 0 R\n>>\n")
	m.endObject()

	// 1000004 /ParentTree. Page entries keep their positional index; blank
	// pages (zero slots) are left out. Annotation entries follow at the
	// producer's threshold offset so keys stay ascending.
	fixed[4] = m.w.Position()
	m.beginFixedObject(parentTreeID)
	m.w.WriteString("<</Nums [")
	for i, id := range m.structParents {
		if id == 0 {
			continue
		}
		m.w.WriteInt(i)
		m.writeRef(id)
		_ = m.w.WriteByte('\n')
	}
	for i, id := range m.structParent {
		m.w.WriteInt(structParentThreshold + i)
		m.writeRef(id)
		_ = m.w.WriteByte('\n')
	}
	m.w.WriteString("]>>\n")
	m.endObject()

	// 1000005 /Dests, in destination-id order so output bytes are
	// deterministic.
	fixed[5] = m.w.Position()
	m.beginFixedObject(destsID)
	m.w.WriteString("<<")
	urls := make([]string, 0, len(m.urlDests))
	for url := range m.urlDests {
		urls = append(urls, url)
	}
	sort.Slice(urls, func(i, j int) bool { return m.urlIDs[urls[i]] < m.urlIDs[urls[j]] })
	for _, url := range urls {
		m.w.WriteString("/URLD-")
		m.w.WriteInt(m.urlIDs[url])
		m.w.WriteString(" [")
		m.w.WriteInt(m.urlDests[url])
		m.w.WriteString(" 0 R /Fit]\n")
	}
	m.w.WriteString(">>\n")
	m.endObject()

	// xref: one subsection for the free head plus all input-derived and
	// outline objects, one for the fixed-id block.
	xrefPos := m.w.Position()
	m.w.WriteString("xref\n0 ")
	m.w.WriteInt(len(m.xrefs) + 1)
	m.w.WriteString("\n0000000000 65535 f \n")
	for id := 1; id <= len(m.xrefs); id++ {
		m.writeXrefEntry(m.xrefs[id])
	}
	m.w.WriteString("1000000 6\n")
	for _, offset := range fixed {
		m.writeXrefEntry(offset)
	}

	m.w.WriteString("trailer\n<</Size ")
	m.w.WriteInt(len(m.xrefs) + 7)
	m.w.WriteString(" /Root 1000001 0 R /Info 1000000 0 R>>\nstartxref\n")
	m.w.WriteInt(int(xrefPos))
	m.w.WriteString("\n%%EOF")

	return m.w.Flush()
}

// writeOutline emits node and its subtree. next is the object id of the
// node's following sibling, zero for the last child: the /Next chain is
// threaded by the parent's iteration.
func (m *merger) writeOutline(node *OutlineNode, next int, resolve func(href string) ParsedURL) {
	m.xrefs[node.pdfID] = m.w.Position()
	m.w.WriteInt(node.pdfID)
	m.w.WriteBytes(objMarker)

	m.w.WriteString("<</Type /Outlines\n/Count ")
	m.w.WriteInt(node.count)
	_ = m.w.WriteByte('\n')
	if len(node.Items) > 0 {
		m.w.WriteString("/First ")
		m.w.WriteInt(node.Items[0].pdfID)
		m.w.WriteString(" 0 R\n/Last ")
		m.w.WriteInt(node.Items[len(node.Items)-1].pdfID)
		m.w.WriteString(" 0 R\n")
	}
	if next != 0 {
		m.w.WriteString("/Next ")
		m.w.WriteInt(next)
		m.w.WriteString(" 0 R\n")
	}
	m.w.WriteString("/Title ")
	m.w.WriteHexString(node.Name)
	_ = m.w.WriteByte('\n')

	parsed := resolve(node.Href)
	switch {
	case parsed.PageURL != "":
		// A failed render leaves the bookmark without a destination; its
		// subtree is still emitted.
		if _, rendered := m.urlDests[parsed.PageURL]; rendered {
			m.w.WriteString("/Dest /URLD-")
			m.w.WriteInt(m.urlIDs[parsed.PageURL])
			_ = m.w.WriteByte('\n')
		}
	case parsed.ExternalURL != "":
		m.w.WriteString("/A <</Type /Action /S /URI /URI (")
		m.w.WriteString(parsed.ExternalURL)
		m.w.WriteString(")>>\n")
	}
	m.w.WriteString(">>\n")
	m.endObject()

	for i, child := range node.Items {
		siblingID := 0
		if i+1 < len(node.Items) {
			siblingID = node.Items[i+1].pdfID
		}
		m.writeOutline(child, siblingID, resolve)
	}
}

func (m *merger) beginFixedObject(id int) {
	m.w.WriteInt(id)
	m.w.WriteBytes(objMarker)
}

func (m *merger) endObject() {
	m.w.WriteBytes(endobjMarker)
}

func (m *merger) writeRef(id int) {
	_ = m.w.WriteByte(' ')
	m.w.WriteInt(id)
	m.w.WriteString(" 0 R")
}

func (m *merger) writeXrefEntry(offset int64) {
	m.w.WritePaddedInt(offset, 10)
	m.w.WriteString(" 00000 n \n")
}
