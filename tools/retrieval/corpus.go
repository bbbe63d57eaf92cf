package retrieval

import (
	"sync"

	"github.com/bububa/docassist/schema"
)

// Corpus is an ordered, id indexed set of documents. Corpus order breaks ranking ties.
type Corpus struct {
	mtx   sync.RWMutex
	docs  []schema.Document
	index map[string]int
}

// NewCorpus returns a Corpus holding docs. A later document replaces an earlier one with the same id.
func NewCorpus(docs ...schema.Document) *Corpus {
	c := &Corpus{
		index: make(map[string]int, len(docs)),
	}
	c.Add(docs...)
	return c
}

// Add appends documents, replacing in place the ones whose id already exists
func (c *Corpus) Add(docs ...schema.Document) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	for _, doc := range docs {
		id := doc.ID()
		if idx, ok := c.index[id]; ok {
			c.docs[idx] = doc.Clone()
			continue
		}
		c.index[id] = len(c.docs)
		c.docs = append(c.docs, doc.Clone())
	}
}

// Get returns a copy of the document with the given id
func (c *Corpus) Get(id string) (schema.Document, bool) {
	c.mtx.RLock()
	defer c.mtx.RUnlock()
	idx, ok := c.index[id]
	if !ok {
		return nil, false
	}
	return c.docs[idx].Clone(), true
}

// Documents returns copies of every document in corpus order
func (c *Corpus) Documents() []schema.Document {
	c.mtx.RLock()
	defer c.mtx.RUnlock()
	ret := make([]schema.Document, 0, len(c.docs))
	for _, doc := range c.docs {
		ret = append(ret, doc.Clone())
	}
	return ret
}

func (c *Corpus) Len() int {
	c.mtx.RLock()
	defer c.mtx.RUnlock()
	return len(c.docs)
}

// DefaultCorpus returns the built in data visualization corpus
func DefaultCorpus() *Corpus {
	return NewCorpus(
		schema.Document{
			"id":      "doc_1",
			"title":   "Introduction to Data Visualization",
			"source":  "data_viz_guide.pdf",
			"content": "Data visualization is the graphical representation of information and data. By using visual elements like charts, graphs, and maps, data visualization tools provide an accessible way to see and understand trends, outliers, and patterns in data.",
		},
		schema.Document{
			"id":      "doc_2",
			"title":   "Best Practices in Data Visualization",
			"source":  "viz_best_practices.pdf",
			"content": "Effective data visualization helps in understanding complex datasets. Choose the chart type that matches the question being asked. Label axes clearly and avoid decorative elements that distract from the data. Use color deliberately and keep scales consistent across related charts.",
		},
		schema.Document{
			"id":      "doc_3",
			"title":   "Choosing Chart Types",
			"source":  "chart_types.md",
			"content": "Bar charts compare quantities across categories. Line charts show how a value changes over time. Scatter plots reveal the relationship between two numeric variables. Pie charts should be reserved for showing parts of a whole with few categories.",
		},
		schema.Document{
			"id":      "doc_4",
			"title":   "Descriptive Statistics Primer",
			"source":  "statistics_primer.pdf",
			"content": "The mean is the sum of the values divided by their count. The median is the middle value of a sorted list. The standard deviation measures how spread out values are around the mean. Percent change is computed as the difference between new and old values divided by the old value, times 100.",
		},
		schema.Document{
			"id":      "doc_5",
			"title":   "Dashboard Design Guidelines",
			"source":  "dashboard_guidelines.docx",
			"content": "A dashboard should answer a small number of key questions at a glance. Place the most important metrics in the top left. Group related visualizations together and keep filters consistent. Avoid more than seven or eight widgets on a single screen.",
		},
	)
}
