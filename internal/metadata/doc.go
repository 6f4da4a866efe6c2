// Package metadata reads descriptive properties from local image and
// document files.
//
// The crawler and the downloader never use this package. It backs the
// "spider meta" command, which prints file size, timestamps and the
// format specific properties of saved files:
//
//   - images: format, colour mode, dimensions and EXIF tags
//   - PDF: page count and the document information dictionary
//   - DOCX: the core properties stored in docProps/core.xml
//
// A file that cannot be read never stops a batch; the problem is recorded
// in the Error field of its result.
package metadata
