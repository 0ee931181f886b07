package fs

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type FsSuite struct {
	suite.Suite
	fs Filesys
}

func TestFs(t *testing.T) {
	suite.Run(t, new(FsSuite))
}

func (suite *FsSuite) SetupTest() {
	suite.fs = MemFs()
}

func (suite FsSuite) TestAtomicCreate() {
	suite.fs.AtomicCreateWith("foo", []byte{2})
	suite.Equal([]byte{2}, ReadAll(suite.fs, "foo"),
		"file should have correct contents")
}

func (suite FsSuite) TestAtomicOverwrite() {
	suite.fs.AtomicCreateWith("foo", []byte{1, 2, 3})
	suite.fs.AtomicCreateWith("foo", []byte{4})
	suite.Equal([]byte{4}, ReadAll(suite.fs, "foo"),
		"atomic create should replace old contents")
}

func (suite FsSuite) TestList() {
	suite.fs.AtomicCreateWith("foo", nil)
	suite.fs.AtomicCreateWith("bar", nil)
	suite.ElementsMatch([]string{"bar", "foo"}, suite.fs.List())
}

func (suite FsSuite) TestDelete() {
	suite.fs.AtomicCreateWith("foo", nil)
	suite.Equal([]string{"foo"}, suite.fs.List())
	suite.fs.Delete("foo")
	suite.Empty(suite.fs.List())
}

func (suite FsSuite) TestSize() {
	suite.fs.AtomicCreateWith("foo", []byte{1, 2, 3})
	f := suite.fs.Open("foo")
	suite.Equal(3, f.Size())
	f.Close()
}

func (suite FsSuite) TestDeleteAll() {
	suite.fs.AtomicCreateWith("foo", nil)
	suite.fs.AtomicCreateWith("bar", nil)
	suite.Equal(2, len(suite.fs.List()))
	DeleteAll(suite.fs)
	suite.Empty(suite.fs.List())
}
