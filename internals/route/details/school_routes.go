// internals/route/details/school_routes.go
package details

import (
	"github.com/gofiber/fiber/v2"

	classController "schoolmanagement_backend/internals/features/school/classes/controller"
	classRoutes "schoolmanagement_backend/internals/features/school/classes/route"
	classService "schoolmanagement_backend/internals/features/school/classes/service"
	studentController "schoolmanagement_backend/internals/features/school/students/controller"
	studentRoutes "schoolmanagement_backend/internals/features/school/students/route"
	studentService "schoolmanagement_backend/internals/features/school/students/service"
	teacherController "schoolmanagement_backend/internals/features/school/teachers/controller"
	teacherRoutes "schoolmanagement_backend/internals/features/school/teachers/route"
	teacherService "schoolmanagement_backend/internals/features/school/teachers/service"
)

/* ===================== SCHOOL ===================== */

func SchoolRoutes(
	api fiber.Router,
	teachers *teacherService.TeacherService,
	roster *teacherService.RosterService,
	classes *classService.ClassService,
	students *studentService.StudentService,
) {
	teacherRoutes.TeacherRoutes(api, teacherController.NewTeacherController(teachers, roster))
	classRoutes.ClassRoutes(api, classController.NewClassController(classes))
	studentRoutes.StudentRoutes(api, studentController.NewStudentController(students))
}
