package topology

// DictValue is a typed value stored in a Dictionary, grounded on
// dictionary.rs's DictValue enum (Int/Double/String/List).
type DictValue struct {
	Int    *int64
	Double *float64
	Str    *string
	List   []DictValue
}

func DictInt(v int64) DictValue       { return DictValue{Int: &v} }
func DictDouble(v float64) DictValue  { return DictValue{Double: &v} }
func DictString(v string) DictValue   { return DictValue{Str: &v} }
func DictList(v ...DictValue) DictValue { return DictValue{List: v} }

// Dictionary is a typed key-value map attached to a topology entity.
type Dictionary map[string]DictValue

// SetDictionary attaches a dictionary to a topology entity, replacing
// any existing one.
func (a *Arena) SetDictionary(k TopologyKey, dict Dictionary) {
	a.dictionaries[k] = dict
}

// GetDictionary returns the dictionary attached to a topology entity, if
// any.
func (a *Arena) GetDictionary(k TopologyKey) (Dictionary, bool) {
	d, ok := a.dictionaries[k]
	return d, ok
}

// GetOrCreateDictionary returns the dictionary attached to a topology
// entity, creating an empty one first if none exists.
func (a *Arena) GetOrCreateDictionary(k TopologyKey) Dictionary {
	d, ok := a.dictionaries[k]
	if !ok {
		d = make(Dictionary)
		a.dictionaries[k] = d
	}
	return d
}

// RemoveDictionary removes and returns the dictionary from a topology
// entity, if any.
func (a *Arena) RemoveDictionary(k TopologyKey) (Dictionary, bool) {
	d, ok := a.dictionaries[k]
	if ok {
		delete(a.dictionaries, k)
	}
	return d, ok
}
