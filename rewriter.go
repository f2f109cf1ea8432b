package docfx

import "bytes"

// Object-kind prefixes of Chrome's PDF output. Dispatch is literal byte
// matching against the start of the object body; Chrome's emitter is
// deterministic enough that no tokenizing is needed.
var (
	prefixLimits         = []byte("<</Limits ")
	prefixCatalog        = []byte("<</Type /Catalog")
	prefixStructTreeRoot = []byte("<</Type /StructTreeRoot")
	prefixParentTree     = []byte("<</Type /ParentTree\n")
	prefixPage           = []byte("<</Type /Page\n")
	prefixDocStructElem  = []byte("<</Type /StructElem\n/S /Document\n")

	keyStructParent = []byte("/StructParent")
	keyParentRef    = []byte("/Parent ")
	keyPRef         = []byte("/P ")
	refSuffix       = []byte(" 0 R")
)

// structParentThreshold separates page /StructParents indices from
// annotation /StructParent indices in Chrome's numbering. Pages use small
// values, annotations start at 100000.
const structParentThreshold = 100000

// writeObject absorbs one input object: records its unified id in the xref
// map and either swallows it, harvests its ParentTree entries, or emits it
// with rewritten references.
func (m *merger) writeObject(inputID int, body []byte) error {
	uid := m.baseID + inputID
	if uid >= reservedIDBase {
		return ErrTooManyObjects
	}
	if inputID > m.inputObjects {
		m.inputObjects = inputID
	}
	m.xrefs[uid] = m.w.Position()

	switch {
	case inputID == 1:
		// The producer's /Info object; one unified /Info is synthesized
		// in the trailer instead.
		return nil
	case bytes.HasPrefix(body, prefixLimits),
		bytes.HasPrefix(body, prefixCatalog),
		bytes.HasPrefix(body, prefixStructTreeRoot):
		return nil
	case bytes.HasPrefix(body, prefixParentTree):
		m.absorbParentTree(body)
		return nil
	}

	isPage := bytes.HasPrefix(body, prefixPage)
	isDocElem := bytes.HasPrefix(body, prefixDocStructElem)
	if isPage {
		m.pages = append(m.pages, uid)
	}
	if isDocElem {
		m.structElems = append(m.structElems, uid)
	}

	m.w.WriteInt(uid)
	m.w.WriteBytes(objMarker)
	m.rewriteBody(body, isPage, isDocElem)
	m.w.WriteBytes(endobjMarker)
	return m.w.Err()
}

// rewriteBody copies body while renumbering indirect references into the
// unified object space and rebasing struct-parent indices. Page /Parent and
// document-element /P pointers are redirected to the synthesized page tree
// and structure tree roots, whose ids are fixed so they are known before
// the trailer is written.
func (m *merger) rewriteBody(body []byte, isPage, isDocElem bool) {
	i := 0
	for i < len(body) {
		c := body[i]

		if c == '/' && bytes.HasPrefix(body[i:], keyStructParent) {
			if n := m.rewriteStructParent(body, i); n > 0 {
				i += n
				continue
			}
		}

		if c >= '0' && c <= '9' && (i == 0 || !isDigit(body[i-1])) {
			j := i + 1
			for j < len(body) && isDigit(body[j]) {
				j++
			}
			if bytes.HasPrefix(body[j:], refSuffix) {
				n := parseInt(body[i:j])
				switch {
				case isPage && bytes.HasSuffix(body[:i], keyParentRef):
					m.w.WriteInt(pagesRootID)
				case isDocElem && bytes.HasSuffix(body[:i], keyPRef):
					m.w.WriteInt(structTreeRootID)
				default:
					m.w.WriteInt(m.baseID + n)
				}
				m.w.WriteBytes(refSuffix)
				i = j + len(refSuffix)
				continue
			}
			m.w.WriteBytes(body[i:j])
			i = j
			continue
		}

		_ = m.w.WriteByte(c)
		i++
	}
}

// rewriteStructParent handles a "/StructParent <n>" or "/StructParents <n>"
// entry starting at offset i. It returns the number of input bytes consumed,
// or zero when the bytes do not form such an entry (e.g. /StructTreeRoot).
//
// The page/annotation discrimination is by magnitude, not keyword: Chrome
// numbers annotation indices from 100000 upward.
func (m *merger) rewriteStructParent(body []byte, i int) int {
	j := i + len(keyStructParent)
	plural := j < len(body) && body[j] == 's'
	if plural {
		j++
	}
	if j >= len(body) || body[j] != ' ' {
		return 0
	}
	j++
	k := j
	for k < len(body) && isDigit(body[k]) {
		k++
	}
	if k == j {
		return 0
	}

	n := parseInt(body[j:k])
	if n >= structParentThreshold {
		m.w.WriteString("/StructParent ")
		m.w.WriteInt(m.baseStructParentNum + n)
	} else {
		m.w.WriteString("/StructParents ")
		m.w.WriteInt(m.baseStructParentsNum + n)
	}
	return k - i
}

// absorbParentTree swallows a /Type /ParentTree object, folding its /Nums
// pairs into the merged parent-tree state. Page entries land at their page
// position (gaps are zero-filled so blank pages keep a slot); annotation
// entries append in index order.
func (m *merger) absorbParentTree(body []byte) {
	nums := body
	if idx := bytes.Index(nums, []byte("/Nums [")); idx >= 0 {
		nums = nums[idx+len("/Nums ["):]
	}
	if idx := bytes.IndexByte(nums, ']'); idx >= 0 {
		nums = nums[:idx]
	}

	i := 0
	for {
		n, ok := nextInt(nums, &i)
		if !ok {
			return
		}
		id, ok := nextInt(nums, &i)
		if !ok {
			return
		}
		// Skip the "0 R" of the reference.
		if _, ok = nextInt(nums, &i); !ok {
			return
		}
		for i < len(nums) && nums[i] != 'R' {
			i++
		}
		if i < len(nums) {
			i++
		}

		if n < structParentThreshold {
			slot := m.baseStructParentsNum + n
			for len(m.structParents) <= slot {
				m.structParents = append(m.structParents, 0)
			}
			m.structParents[slot] = m.baseID + id
		} else {
			m.structParent = append(m.structParent, m.baseID+id)
		}
	}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func parseInt(b []byte) int {
	n := 0
	for _, c := range b {
		n = n*10 + int(c-'0')
	}
	return n
}

// nextInt scans forward from *i for the next run of digits and parses it.
func nextInt(b []byte, i *int) (int, bool) {
	for *i < len(b) && !isDigit(b[*i]) {
		*i++
	}
	if *i >= len(b) {
		return 0, false
	}
	j := *i
	for j < len(b) && isDigit(b[j]) {
		j++
	}
	n := parseInt(b[*i:j])
	*i = j
	return n, true
}
