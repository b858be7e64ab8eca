// Package codec converts configuration files to and from *tomato.Table.
//
// The file extension selects the format: .toml (BurntSushi/toml), .yaml and
// .yml (gopkg.in/yaml.v3) and .json (encoding/json). Every codec keeps the
// key order of the file when decoding and writes keys in table order when
// encoding, so a document written back looks the way its author laid it out.
//
//	c, err := codec.ForPath("/home/me/.tomato.toml", "toml")
//	if err != nil {
//	    return err
//	}
//	doc, err := c.Decode(data)
package codec
